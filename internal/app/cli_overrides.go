package app

import (
	"fmt"
	"strings"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/s3"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/config"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const s3Scheme = "s3://"

// applySnapshotOverride points the registry at the snapshot named on the
// command line. An s3:// location selects the s3 backend, anything else a
// local file. An explicitly configured backend other than those two wins
// only when no snapshot was given.
func applySnapshotOverride(cfg *config.Config, location string, backendSet bool) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	if backendSet && cfg.Registry.Backend != snapshot.RegistryTypeSnapshot && cfg.Registry.Backend != s3.RegistryTypeS3 {
		return errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("--snapshot cannot be used with the %s registry backend", cfg.Registry.Backend),
			"Drop --snapshot or select the snapshot backend.")
	}

	if !strings.HasPrefix(location, s3Scheme) {
		cfg.Registry.Backend = snapshot.RegistryTypeSnapshot
		cfg.Registry.Snapshot.Path = location
		return nil
	}

	bucket, key, err := splitS3Location(location)
	if err != nil {
		return err
	}
	cfg.Registry.Backend = s3.RegistryTypeS3
	cfg.Registry.S3.Bucket = bucket
	cfg.Registry.S3.Key = key
	return nil
}

func splitS3Location(location string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("invalid S3 snapshot location %q", location), "Use s3://<bucket>/<key>.")
	}
	return bucket, key, nil
}
