package aws

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"

	"volsweep/internal/logging"
)

// Volume is the read-only view of an EBS volume this tool operates on
type Volume struct {
	ID         string
	Type       string
	SizeGiB    int64
	CreateTime time.Time
	State      string
	Tags       map[string]string
}

// ListAvailableVolumes lists all volumes in the "available" (unattached)
// state in the session's region.
func ListAvailableVolumes(sess *session.Session) ([]Volume, error) {
	svc := ec2.New(sess)
	input := &ec2.DescribeVolumesInput{
		Filters: []*ec2.Filter{
			{
				Name:   aws.String("status"),
				Values: []*string{aws.String("available")},
			},
		},
	}

	var volumes []Volume
	err := svc.DescribeVolumesPages(input, func(page *ec2.DescribeVolumesOutput, lastPage bool) bool {
		for _, v := range page.Volumes {
			tags := make(map[string]string)
			for _, tag := range v.Tags {
				tags[aws.StringValue(tag.Key)] = aws.StringValue(tag.Value)
			}

			volumes = append(volumes, Volume{
				ID:         aws.StringValue(v.VolumeId),
				Type:       aws.StringValue(v.VolumeType),
				SizeGiB:    aws.Int64Value(v.Size),
				CreateTime: aws.TimeValue(v.CreateTime),
				State:      aws.StringValue(v.State),
				Tags:       tags,
			})
		}
		return !lastPage
	})

	if err != nil {
		return nil, fmt.Errorf("failed to describe volumes: %w", err)
	}

	logging.Debug("Found unattached volumes", map[string]interface{}{
		"volume_count": len(volumes),
	})
	return volumes, nil
}

// DeleteVolume issues the terminal delete call for a volume
func DeleteVolume(sess *session.Session, volumeID string) error {
	svc := ec2.New(sess)
	_, err := svc.DeleteVolume(&ec2.DeleteVolumeInput{
		VolumeId: aws.String(volumeID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete volume %s: %w", volumeID, err)
	}
	return nil
}
