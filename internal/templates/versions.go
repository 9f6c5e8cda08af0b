package templates

// Pinned actions used by the project's workflows. Bump versions here only.
const (
	Checkout     = "actions/checkout@v4"
	SetupGo      = "actions/setup-go@v5"
	Cache        = "actions/cache@v3"
	GolangciLint = "golangci/golangci-lint-action@v6"
	GoReleaser   = "goreleaser/goreleaser-action@v6"
)

// GoVersion is the toolchain every job installs.
const GoVersion = "1.25"
