package maintenance

const (
	OperationUpdate  = "update"
	OperationCleanup = "cleanup"
)

// Step names shared by every package-manager preset.
const (
	StepRefreshIndex   = "refresh-package-index"
	StepUpgrade        = "upgrade-all-packages"
	StepCleanCache     = "clean-package-cache"
	StepRemoveUnused   = "remove-unused-packages"
	StepRemoveTempFile = "remove-temp-files"
)

// Step is one external command of an operation.
type Step struct {
	Name  string
	Title string
	Argv  []string
	// AllowFailure records a non-zero exit without aborting the operation.
	AllowFailure bool
}

// Operation is a named, ordered list of steps run strictly in sequence.
type Operation struct {
	Name  string
	Title string
	Steps []Step
}

// UpdateOperation refreshes the package index, then upgrades everything.
func UpdateOperation(refresh, upgrade []string) Operation {
	return Operation{
		Name:  OperationUpdate,
		Title: "System update",
		Steps: []Step{
			{Name: StepRefreshIndex, Title: "Updating package lists", Argv: refresh},
			{Name: StepUpgrade, Title: "Upgrading packages", Argv: upgrade},
		},
	}
}

// CleanupOperation cleans the package cache, removes unused packages and
// clears the temp directory.
func CleanupOperation(cleanCache, removeUnused, removeTemp []string) Operation {
	return Operation{
		Name:  OperationCleanup,
		Title: "System cleanup",
		Steps: []Step{
			{Name: StepCleanCache, Title: "Cleaning package cache", Argv: cleanCache},
			{Name: StepRemoveUnused, Title: "Removing unused packages", Argv: removeUnused},
			{Name: StepRemoveTempFile, Title: "Cleaning temporary files", Argv: removeTemp},
		},
	}
}
