package s3

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/olusolaa/pkgutils/internal/errors"
)

var notFoundCodes = map[string]struct{}{
	"NoSuchBucket":              {},
	"NoSuchKey":                 {},
	"NotFound":                  {},
	"ResourceNotFoundException": {},
}

var authCodes = map[string]struct{}{
	"AccessDenied":                {},
	"InvalidAccessKeyId":          {},
	"SignatureDoesNotMatch":       {},
	"ExpiredToken":                {},
	"InvalidClientTokenId":        {},
	"UnrecognizedClientException": {},
}

// HandleAWSError maps an AWS SDK error for the given operation on target
// (a bucket/key pair or the caller identity) to an application error.
func HandleAWSError(ctx context.Context, operation, target string, err error) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error in AWS error handler for %s", operation))
	}

	if ctx.Err() != nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout, fmt.Sprintf("context done during AWS %s call", operation))
	}

	code := ""
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}

	if _, ok := authCodes[code]; ok || strings.Contains(err.Error(), "AccessDenied") {
		return errors.WrapUserFacing(err, errors.CodePlatformAuthError,
			fmt.Sprintf("AWS denied %s on %s", operation, target), "Check AWS credentials and bucket policy.")
	}
	if _, ok := notFoundCodes[code]; ok {
		return errors.WrapUserFacing(err, errors.CodeSnapshotReadError,
			fmt.Sprintf("snapshot %s not found", target), "Check registry.s3.bucket and registry.s3.key.")
	}
	return errors.Wrap(err, errors.CodePlatformAPIError, fmt.Sprintf("AWS %s failed for %s", operation, target))
}
