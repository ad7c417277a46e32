// Package s3 serves a registry snapshot stored as an S3 object, so a fleet
// of devices can publish their application lists centrally.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/core/ports"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const RegistryTypeS3 = "s3"

// maxSnapshotBytes bounds how much of an object is read.
const maxSnapshotBytes = 32 << 20

type Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Key    string `yaml:"key" mapstructure:"key"`
	Region string `yaml:"region" mapstructure:"region"`
	RPS    int    `yaml:"rps" mapstructure:"rps" validate:"omitempty,min=1,max=100"`
}

type S3ClientInterface interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type STSClientInterface interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Registry is a snapshot registry whose document came from S3.
type Registry struct {
	*snapshot.Registry
	accountID string
}

func (r *Registry) Type() string { return RegistryTypeS3 }

func (r *Registry) AccountID() string { return r.accountID }

type Loader struct {
	cfg       Config
	s3Client  S3ClientInterface
	stsClient STSClientInterface
	limiter   RateLimiter
	logger    ports.Logger
}

type LoaderOption func(*Loader)

func WithS3Client(client S3ClientInterface) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.s3Client = client
		}
	}
}

func WithSTSClient(client STSClientInterface) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.stsClient = client
		}
	}
}

func WithRateLimiter(limiter RateLimiter) LoaderOption {
	return func(l *Loader) {
		if limiter != nil {
			l.limiter = limiter
		}
	}
}

// NewLoader resolves AWS credentials through the default chain unless
// both clients are supplied as options.
func NewLoader(ctx context.Context, cfg Config, logger ports.Logger, opts ...LoaderOption) (*Loader, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for S3 registry loader")
	}
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			"S3 registry requires a bucket and key", "Set registry.s3.bucket and registry.s3.key.")
	}

	l := &Loader{
		cfg:    cfg,
		logger: logger.WithFields(map[string]any{"component": "s3_registry", "bucket": cfg.Bucket, "key": cfg.Key}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.limiter == nil {
		l.limiter = NewRateLimiter(cfg.RPS, l.logger)
	}

	if l.s3Client == nil || l.stsClient == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to load default AWS config")
		}
		if l.s3Client == nil {
			l.s3Client = s3.NewFromConfig(awsCfg)
		}
		if l.stsClient == nil {
			l.stsClient = sts.NewFromConfig(awsCfg)
		}
	}
	return l, nil
}

func (l *Loader) callerAccount(ctx context.Context) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", HandleAWSError(ctx, "GetCallerIdentity", "caller identity", err)
	}
	out, err := l.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", HandleAWSError(ctx, "GetCallerIdentity", "caller identity", err)
	}
	if out.Account == nil {
		return "", errors.New(errors.CodePlatformAPIError, "AWS caller identity response did not contain Account ID")
	}
	return aws.ToString(out.Account), nil
}

// Load fetches and parses the configured snapshot object.
func (l *Loader) Load(ctx context.Context) (*Registry, error) {
	target := fmt.Sprintf("s3://%s/%s", l.cfg.Bucket, l.cfg.Key)

	format, err := snapshot.FormatFromPath(l.cfg.Key)
	if err != nil {
		return nil, err
	}

	account, err := l.callerAccount(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debugf(ctx, "Using AWS account %s", account)

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, HandleAWSError(ctx, "GetObject", target, err)
	}
	out, err := l.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.cfg.Bucket),
		Key:    aws.String(l.cfg.Key),
	})
	if err != nil {
		return nil, HandleAWSError(ctx, "GetObject", target, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxSnapshotBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotReadError, fmt.Sprintf("failed to read %s", target))
	}
	if len(data) > maxSnapshotBytes {
		return nil, errors.NewUserFacing(errors.CodeSnapshotReadError,
			fmt.Sprintf("snapshot %s exceeds %d bytes", target, maxSnapshotBytes), "Split the snapshot per device.")
	}

	reg, err := snapshot.Parse(data, format, target)
	if err != nil {
		return nil, err
	}
	l.logger.Infof(ctx, "Loaded registry snapshot from %s", target)
	return &Registry{Registry: reg, accountID: account}, nil
}
