package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/s3"
	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/config"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const (
	deviceJSON = "../adapters/registry/snapshot/testdata/device.json"
	deviceHCL  = "../adapters/registry/snapshot/testdata/device.hcl"
)

type ApplicationTestSuite struct {
	suite.Suite
	ctx context.Context
	out *bytes.Buffer
	v   *viper.Viper
}

func TestApplicationTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationTestSuite))
}

func (s *ApplicationTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.out = new(bytes.Buffer)
	s.v = viper.New()
	s.v.Set("settings.log_level", "error")
	s.v.Set("registry.snapshot.path", deviceJSON)
}

func (s *ApplicationTestSuite) build() *Application {
	application, err := BuildApplicationFromViper(s.ctx, s.v, WithOutput(s.out), WithLogOutput(new(bytes.Buffer)))
	s.Require().NoError(err)
	return application
}

func (s *ApplicationTestSuite) TestList_JSON() {
	s.v.Set("settings.reporter", "json")
	s.v.Set("settings.reporter_config.json.compact", true)
	application := s.build()

	s.Require().NoError(application.List(s.ctx))
	out := s.out.String()
	s.Contains(out, `"total":4`)
	s.Contains(out, `"label":"Launchable"`)
	s.Contains(out, `"id":"com.yotadevices.system"`)
}

func (s *ApplicationTestSuite) TestSummaries() {
	application := s.build()
	summaries, err := application.Summaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 4)

	byID := map[string]bool{}
	for _, sum := range summaries {
		byID[sum.ID] = sum.Deletable
	}
	s.True(byID["com.yotadevices.launchable"])
	s.False(byID["com.yotadevices.system"])
	s.False(byID["com.yotadevices.updated"])
}

func (s *ApplicationTestSuite) TestResolverOpenedOnce() {
	application := s.build()
	first, err := application.Resolver(s.ctx)
	s.Require().NoError(err)
	second, err := application.Resolver(s.ctx)
	s.Require().NoError(err)
	s.Same(first, second)
}

func (s *ApplicationTestSuite) TestResolver_MissingSnapshot() {
	s.v.Set("registry.snapshot.path", "testdata/missing.json")
	application := s.build()
	_, err := application.Resolver(s.ctx)
	s.Equal(errors.CodeSnapshotReadError, errors.GetCode(err))
}

func (s *ApplicationTestSuite) TestDiff_SameDeviceInTwoFormats() {
	application := s.build()
	changed, err := application.Diff(s.ctx, deviceJSON, deviceHCL)
	s.Require().NoError(err)
	s.False(changed)
	s.Contains(s.out.String(), "No differences found.")
}

func (s *ApplicationTestSuite) TestDiff_LoadFailure() {
	application := s.build()
	_, err := application.Diff(s.ctx, deviceJSON, "testdata/missing.json")
	s.Error(err)
}

func TestLoadConfig_Validation(t *testing.T) {
	v := viper.New()
	v.Set("registry.backend", "bluetooth")
	_, err := LoadConfig(context.Background(), v)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
	msg, _, ok := errors.GetUserFacingMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "Registry.Backend")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), viper.New())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestApplySnapshotOverride(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		backendSet  bool
		location    string
		wantBackend string
		wantPath    string
		wantBucket  string
		wantKey     string
		wantErr     bool
	}{
		{name: "no override", backend: "adb", location: "", wantBackend: "adb"},
		{name: "local file", backend: "adb", location: "dev.json", wantBackend: snapshot.RegistryTypeSnapshot, wantPath: "dev.json"},
		{name: "s3 location", backend: "snapshot", location: "s3://fleet/devices/a.hcl", wantBackend: s3.RegistryTypeS3, wantBucket: "fleet", wantKey: "devices/a.hcl"},
		{name: "s3 without key", backend: "snapshot", location: "s3://fleet", wantErr: true},
		{name: "explicit adb backend", backend: "adb", backendSet: true, location: "dev.json", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Registry.Backend = tt.backend
			err := applySnapshotOverride(cfg, tt.location, tt.backendSet)
			if tt.wantErr {
				assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, cfg.Registry.Backend)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, cfg.Registry.Snapshot.Path)
			}
			assert.Equal(t, tt.wantBucket, cfg.Registry.S3.Bucket)
			assert.Equal(t, tt.wantKey, cfg.Registry.S3.Key)
		})
	}
}
