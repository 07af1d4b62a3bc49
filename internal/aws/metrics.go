package aws

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
)

const (
	metricNamespace = "AWS/EBS"
	metricName      = "VolumeIdleTime"
	metricDimension = "VolumeId"

	// One datapoint per hour, reporting the minimum idle seconds observed
	metricPeriodSeconds = 3600
)

// metricWindow returns the stats query window: lookback wide, ending one day
// ahead of now so late-published datapoints still land inside it. Keep the
// skew, downstream verdicts depend on it.
func metricWindow(now time.Time, lookback time.Duration) (start, end time.Time) {
	end = now.Add(24 * time.Hour)
	return end.Add(-lookback), end
}

// GetVolumeIdleMinimums returns the per-hour minimum VolumeIdleTime values
// for the volume over the given lookback window
func GetVolumeIdleMinimums(sess *session.Session, volumeID string, lookback time.Duration, now time.Time) ([]float64, error) {
	startTime, endTime := metricWindow(now, lookback)

	svc := cloudwatch.New(sess)
	input := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(metricNamespace),
		MetricName: aws.String(metricName),
		Dimensions: []*cloudwatch.Dimension{
			{
				Name:  aws.String(metricDimension),
				Value: aws.String(volumeID),
			},
		},
		Period:     aws.Int64(metricPeriodSeconds),
		StartTime:  aws.Time(startTime),
		EndTime:    aws.Time(endTime),
		Statistics: []*string{aws.String(cloudwatch.StatisticMinimum)},
		Unit:       aws.String(cloudwatch.StandardUnitSeconds),
	}

	output, err := svc.GetMetricStatistics(input)
	if err != nil {
		return nil, fmt.Errorf("failed to get idle metrics for volume %s: %w", volumeID, err)
	}

	minimums := make([]float64, 0, len(output.Datapoints))
	for _, dp := range output.Datapoints {
		minimums = append(minimums, aws.Float64Value(dp.Minimum))
	}
	return minimums, nil
}
