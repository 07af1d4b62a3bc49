package aws

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
)

// GetAvailableRegions returns the regions enabled for the account, sorted.
// DescribeRegions is region-agnostic but still needs an endpoint; us-east-1
// is always enabled so the lookup is pinned there.
func GetAvailableRegions(sess *session.Session) ([]string, error) {
	svc := ec2.New(sess, aws.NewConfig().WithRegion("us-east-1"))

	out, err := svc.DescribeRegions(&ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		regions = append(regions, aws.StringValue(r.RegionName))
	}
	sort.Strings(regions)
	return regions, nil
}

// ValidateRegions rejects any requested region that is not enabled for the
// account, so a typo fails the run before any volume is touched.
func ValidateRegions(sess *session.Session, requested []string) error {
	enabled, err := GetAvailableRegions(sess)
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(enabled))
	for _, r := range enabled {
		set[r] = struct{}{}
	}

	for _, r := range requested {
		if _, ok := set[r]; !ok {
			return fmt.Errorf("region %q is not enabled for this account, enabled regions: %s",
				r, strings.Join(enabled, ", "))
		}
	}
	return nil
}
