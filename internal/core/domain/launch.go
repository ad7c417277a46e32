package domain

const (
	ActionMain             = "android.intent.action.MAIN"
	ActionUninstallPackage = "android.intent.action.UNINSTALL_PACKAGE"
	CategoryLauncher       = "android.intent.category.LAUNCHER"

	PackageURIScheme = "package:"
)

type LaunchEntry struct {
	Package    string
	Component  string
	Action     string
	Categories []string
}

type UninstallRequest struct {
	Action string
	URI    string
}

func NewUninstallRequest(appID string) UninstallRequest {
	return UninstallRequest{
		Action: ActionUninstallPackage,
		URI:    PackageURIScheme + appID,
	}
}

// PackageID extracts the application identifier from the request URI.
func (r UninstallRequest) PackageID() string {
	if len(r.URI) < len(PackageURIScheme) || r.URI[:len(PackageURIScheme)] != PackageURIScheme {
		return ""
	}
	return r.URI[len(PackageURIScheme):]
}

// Icon is an opaque image handle. Source names where it came from (a path,
// a resource name, an object key); Data may be empty for lazy sources.
type Icon struct {
	Source string
	Data   []byte
}
