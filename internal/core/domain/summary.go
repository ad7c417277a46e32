package domain

// ApplicationSummary is the reporting view of one installed application.
type ApplicationSummary struct {
	ID            string
	Label         string
	System        bool
	UpdatedSystem bool
	Deletable     bool
	Launchable    bool
	Hash          int32
}
