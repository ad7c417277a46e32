package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/olusolaa/pkgutils/internal/adapters/registry/snapshot"
	"github.com/olusolaa/pkgutils/internal/core/domain"
	portsmocks "github.com/olusolaa/pkgutils/internal/core/ports/mocks"
	"github.com/olusolaa/pkgutils/internal/core/service"
	"github.com/olusolaa/pkgutils/internal/errors"
)

const (
	existingNotLaunchable = "com.yotadevices.not_launchable"
	existingLaunchable    = "com.yotadevices.launchable"
	existingUpdatedSystem = "com.yotadevices.updated"
	existingSystem        = "com.yotadevices.system"
	notExisting           = "is.there.such_package.no"

	existingMetaTag    = "super_tag"
	notExistingMetaTag = "no_such_super_tag"
	existingStringName = "super_string"
	existingStringRef  = "@string/super_string"
	existingValue      = "Attention"
	actionsArrayID     = 2130903040
)

func fixtureRegistry() (*snapshot.Registry, error) {
	return snapshot.New("fixture",
		snapshot.Application{
			ID:       existingNotLaunchable,
			Metadata: map[string]domain.MetadataValue{existingMetaTag: domain.StringValue(existingValue)},
		},
		snapshot.Application{
			ID:         existingLaunchable,
			Label:      "@string/app_name",
			Icon:       "icons/launchable.png",
			Launchable: true,
			Components: []string{"MainActivity"},
			Metadata: map[string]domain.MetadataValue{
				existingMetaTag: domain.StringValue(existingValue),
				"actions":       domain.ResourceValue(actionsArrayID),
				"zero_id":       domain.ResourceValue(0),
				"dangling":      domain.ResourceValue(actionsArrayID + 1),
			},
			Strings:      map[string]string{existingStringName: existingValue, "app_name": "Launchable"},
			StringArrays: map[string][]string{fmt.Sprint(actionsArrayID): {"open", "share"}},
			Drawables:    map[string]string{"myres": "res/drawable/myres.png"},
		},
		snapshot.Application{ID: existingSystem, Flags: []string{"system"}, Icon: "icons/system.png", Launchable: true},
		snapshot.Application{
			ID:         existingUpdatedSystem,
			Flags:      []string{"system", "updated_system"},
			Icon:       "icons/updated.png",
			Launchable: true,
			Metadata:   map[string]domain.MetadataValue{},
		},
	)
}

type ResolverTestSuite struct {
	suite.Suite
	registry *snapshot.Registry
	logger   *portsmocks.Logger
	resolver *service.PackageResolver
	ctx      context.Context
}

func (s *ResolverTestSuite) SetupTest() {
	var err error
	s.registry, err = fixtureRegistry()
	s.Require().NoError(err)
	s.logger = new(portsmocks.Logger).AllowAll()
	s.resolver, err = service.NewPackageResolver(s.registry, s.logger)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) TestNewPackageResolver_NilRegistry() {
	_, err := service.NewPackageResolver(nil, s.logger)
	s.Require().Error(err)
	s.Equal(errors.CodeNotInitialized, errors.GetCode(err))
}

func (s *ResolverTestSuite) TestNotInitialized_DistinctFromUnknownApplication() {
	var zero service.PackageResolver

	_, err := zero.ResolveText(s.ctx, notExisting, existingStringRef)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.CodeNotInitialized))

	text, err := s.resolver.ResolveText(s.ctx, notExisting, existingStringRef)
	s.Require().NoError(err)
	s.Equal(existingStringName, text)
}

func (s *ResolverTestSuite) TestNotInitialized_EveryOperation() {
	var r *service.PackageResolver
	ctx := s.ctx

	checks := map[string]func() error{
		"ResolveText":           func() error { _, err := r.ResolveText(ctx, "a", "b"); return err },
		"ResourceString":        func() error { _, err := r.ResourceString(ctx, "a", "b"); return err },
		"ResolveMetadataString": func() error { _, err := r.ResolveMetadataString(ctx, "a", "b"); return err },
		"ResolveMetadataStringArray": func() error {
			_, _, err := r.ResolveMetadataStringArray(ctx, "a", "b")
			return err
		},
		"ResourceDrawable":           func() error { _, _, err := r.ResourceDrawable(ctx, "a", "b"); return err },
		"Icon":                       func() error { _, _, err := r.Icon(ctx, "a"); return err },
		"IsProtectedSystemComponent": func() error { _, err := r.IsProtectedSystemComponent(ctx, "a"); return err },
		"IsUpdatedSystemApp":         func() error { _, err := r.IsUpdatedSystemApp(ctx, "a"); return err },
		"IsDeletable":                func() error { _, err := r.IsDeletable(ctx, "a"); return err },
		"IsInstalled":                func() error { _, err := r.IsInstalled(ctx, "a"); return err },
		"IsLaunchable":               func() error { _, err := r.IsLaunchable(ctx, "a"); return err },
		"LaunchEntry":                func() error { _, _, err := r.LaunchEntry(ctx, "a", ""); return err },
		"Packages":                   func() error { _, err := r.Packages(ctx); return err },
		"PackageHashes":              func() error { _, err := r.PackageHashes(ctx); return err },
		"RemoveApplication":          func() error { _, err := r.RemoveApplication(ctx, "a"); return err },
		"Summarize":                  func() error { _, _, err := r.Summarize(ctx, "a"); return err },
	}
	for name, call := range checks {
		err := call()
		s.Truef(errors.Is(err, errors.CodeNotInitialized), "%s returned %v", name, err)
	}
}

func (s *ResolverTestSuite) TestResolveText() {
	text, err := s.resolver.ResolveText(s.ctx, existingLaunchable, existingStringRef)
	s.NoError(err)
	s.Equal(existingValue, text)

	text, _ = s.resolver.ResolveText(s.ctx, existingLaunchable, "@string/bad_string")
	s.Equal("bad_string", text)

	text, _ = s.resolver.ResolveText(s.ctx, existingLaunchable, "Plain label")
	s.Equal("Plain label", text)

	text, _ = s.resolver.ResolveText(s.ctx, existingLaunchable, "")
	s.Equal("", text)

	// marked but malformed: the empty parsed name is the fallback
	text, _ = s.resolver.ResolveText(s.ctx, existingLaunchable, "@@string/x")
	s.Equal("", text)
}

func (s *ResolverTestSuite) TestResolveMetadataString() {
	v, err := s.resolver.ResolveMetadataString(s.ctx, existingLaunchable, existingMetaTag)
	s.NoError(err)
	s.Equal(existingValue, v)

	for _, tc := range []struct{ app, tag string }{
		{notExisting, existingMetaTag},
		{existingSystem, existingMetaTag},
		{existingUpdatedSystem, existingMetaTag},
		{existingLaunchable, notExistingMetaTag},
		{existingLaunchable, "actions"},
	} {
		v, err := s.resolver.ResolveMetadataString(s.ctx, tc.app, tc.tag)
		s.NoError(err)
		s.Equal("", v, "%s/%s", tc.app, tc.tag)
	}
}

func (s *ResolverTestSuite) TestResolveMetadataStringArray() {
	values, ok, err := s.resolver.ResolveMetadataStringArray(s.ctx, existingLaunchable, "actions")
	s.NoError(err)
	s.True(ok)
	s.Equal([]string{"open", "share"}, values)

	for _, tc := range []struct{ app, tag string }{
		{notExisting, "actions"},
		{existingSystem, "actions"},
		{existingLaunchable, notExistingMetaTag},
		{existingLaunchable, "zero_id"},
		{existingLaunchable, "dangling"},
		{existingLaunchable, existingMetaTag},
	} {
		values, ok, err := s.resolver.ResolveMetadataStringArray(s.ctx, tc.app, tc.tag)
		s.NoError(err)
		s.False(ok, "%s/%s", tc.app, tc.tag)
		s.Nil(values)
	}
}

func (s *ResolverTestSuite) TestIcon() {
	for _, id := range []string{existingUpdatedSystem, existingLaunchable, existingSystem} {
		icon, ok, err := s.resolver.Icon(s.ctx, id)
		s.NoError(err)
		s.True(ok, id)
		s.NotEmpty(icon.Source)
	}
	for _, id := range []string{notExisting, existingNotLaunchable} {
		_, ok, err := s.resolver.Icon(s.ctx, id)
		s.NoError(err)
		s.False(ok, id)
	}
}

func (s *ResolverTestSuite) TestResourceDrawable() {
	icon, ok, err := s.resolver.ResourceDrawable(s.ctx, existingLaunchable, "myres")
	s.NoError(err)
	s.True(ok)
	s.Equal("res/drawable/myres.png", icon.Source)

	_, ok, _ = s.resolver.ResourceDrawable(s.ctx, existingLaunchable, "nope")
	s.False(ok)
}

func (s *ResolverTestSuite) TestIsSystemApp() {
	for _, id := range []string{existingUpdatedSystem, existingSystem} {
		rec, _, _ := s.registry.Application(s.ctx, id)
		s.True(service.IsSystemApp(rec), id)
	}
	for _, id := range []string{existingLaunchable, existingNotLaunchable} {
		rec, _, _ := s.registry.Application(s.ctx, id)
		s.False(service.IsSystemApp(rec), id)
	}
	s.False(service.IsSystemApp(domain.ApplicationRecord{ID: "x", Flags: domain.FlagUpdatedSystemApp}))
}

func (s *ResolverTestSuite) TestIsProtectedSystemComponent() {
	for id, want := range map[string]bool{
		existingSystem:        true,
		existingUpdatedSystem: true,
		existingLaunchable:    false,
		existingNotLaunchable: false,
		notExisting:           false,
	} {
		got, err := s.resolver.IsProtectedSystemComponent(s.ctx, id)
		s.NoError(err)
		s.Equal(want, got, id)
	}
}

func (s *ResolverTestSuite) TestIsUpdatedSystemApp() {
	ok, err := s.resolver.IsUpdatedSystemApp(s.ctx, existingUpdatedSystem)
	s.NoError(err)
	s.True(ok)

	for _, id := range []string{existingLaunchable, existingNotLaunchable, existingSystem, notExisting} {
		ok, err := s.resolver.IsUpdatedSystemApp(s.ctx, id)
		s.NoError(err)
		s.False(ok, id)
	}
}

func (s *ResolverTestSuite) TestIsDeletable() {
	for id, want := range map[string]bool{
		existingLaunchable:    true,
		existingNotLaunchable: true,
		existingSystem:        false,
		existingUpdatedSystem: false,
		notExisting:           false,
	} {
		got, err := s.resolver.IsDeletable(s.ctx, id)
		s.NoError(err)
		s.Equal(want, got, id)
	}
}

func (s *ResolverTestSuite) TestIsInstalled() {
	ids, err := s.resolver.Packages(s.ctx)
	s.Require().NoError(err)
	s.Len(ids, 4)
	for _, id := range ids {
		ok, err := s.resolver.IsInstalled(s.ctx, id)
		s.NoError(err)
		s.True(ok, id)
	}
	ok, err := s.resolver.IsInstalled(s.ctx, notExisting)
	s.NoError(err)
	s.False(ok)
}

func (s *ResolverTestSuite) TestIsLaunchable() {
	ok, _ := s.resolver.IsLaunchable(s.ctx, existingLaunchable)
	s.True(ok)
	ok, _ = s.resolver.IsLaunchable(s.ctx, existingNotLaunchable)
	s.False(ok)
	ok, _ = s.resolver.IsLaunchable(s.ctx, notExisting)
	s.False(ok)
}

func (s *ResolverTestSuite) TestLaunchEntry_ExplicitComponent() {
	entry, ok, err := s.resolver.LaunchEntry(s.ctx, existingLaunchable, "MainActivity")
	s.NoError(err)
	s.True(ok)
	s.Equal("MainActivity", entry.Component)
	s.Equal(existingLaunchable, entry.Package)
}

func (s *ResolverTestSuite) TestPackageHashes() {
	ids, _ := s.resolver.Packages(s.ctx)
	hashes, err := s.resolver.PackageHashes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(hashes, len(ids))
	for i, id := range ids {
		s.Equal(service.StringHash(id), hashes[i])
	}
}

func (s *ResolverTestSuite) TestRemoveApplication() {
	for _, id := range []string{existingNotLaunchable, existingLaunchable, existingUpdatedSystem} {
		ok, err := s.resolver.RemoveApplication(s.ctx, id)
		s.NoError(err)
		s.True(ok, id)
	}
	for _, id := range []string{existingSystem, notExisting} {
		ok, err := s.resolver.RemoveApplication(s.ctx, id)
		s.NoError(err)
		s.False(ok, id)
	}
	s.Len(s.registry.Requests(), 3)
	s.logger.AssertCalled(s.T(), "Errorf", mock.Anything, mock.Anything, "Cannot remove application %s", mock.Anything)
}

func (s *ResolverTestSuite) TestSummarize() {
	sum, ok, err := s.resolver.Summarize(s.ctx, existingLaunchable)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(domain.ApplicationSummary{
		ID:         existingLaunchable,
		Label:      "Launchable",
		Deletable:  true,
		Launchable: true,
		Hash:       service.StringHash(existingLaunchable),
	}, sum)

	sum, ok, _ = s.resolver.Summarize(s.ctx, existingUpdatedSystem)
	s.True(ok)
	s.True(sum.System)
	s.True(sum.UpdatedSystem)
	s.False(sum.Deletable)

	_, ok, err = s.resolver.Summarize(s.ctx, notExisting)
	s.NoError(err)
	s.False(ok)
}

func TestStringHash(t *testing.T) {
	tests := map[string]int32{
		"":      0,
		"a":     97,
		"ab":    3105,
		"hello": 99162322,
		// overflow wraps like the platform's 32-bit hash
		"com.yotadevices.launchable": stringHashReference("com.yotadevices.launchable"),
	}
	for in, want := range tests {
		if got := service.StringHash(in); got != want {
			t.Errorf("StringHash(%q) = %d, want %d", in, got, want)
		}
	}
}

func stringHashReference(s string) int32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return int32(h)
}
