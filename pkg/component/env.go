// Package component implements the runtime contract between a component
// process and its host orchestrator: the data directory layout, the
// configuration file, input/output reconciliation, state passthrough and
// action dispatch.
package component

import "os"

// EnvironmentVariables are the values the host injects into the component's
// environment.
type EnvironmentVariables struct {
	DataDir             string
	RunID               string
	ProjectID           string
	StackID             string
	ConfigID            string
	ComponentID         string
	ConfigRowID         string
	BranchID            string
	StagingFileProvider string
	ProjectName         string
	TokenID             string
	TokenDesc           string
	Token               string
	URL                 string
	RealUser            string
	LoggerAddr          string
	LoggerPort          string
	DataTypeSupport     string
}

// LoadEnvironment reads the host-injected environment variables. Absent
// variables come back as empty strings.
func LoadEnvironment() EnvironmentVariables {
	return EnvironmentVariables{
		DataDir:             os.Getenv("KBC_DATADIR"),
		RunID:               os.Getenv("KBC_RUNID"),
		ProjectID:           os.Getenv("KBC_PROJECTID"),
		StackID:             os.Getenv("KBC_STACKID"),
		ConfigID:            os.Getenv("KBC_CONFIGID"),
		ComponentID:         os.Getenv("KBC_COMPONENTID"),
		ConfigRowID:         os.Getenv("KBC_CONFIGROWID"),
		BranchID:            os.Getenv("KBC_BRANCHID"),
		StagingFileProvider: os.Getenv("KBC_STAGING_FILE_PROVIDER"),
		ProjectName:         os.Getenv("KBC_PROJECTNAME"),
		TokenID:             os.Getenv("KBC_TOKENID"),
		TokenDesc:           os.Getenv("KBC_TOKENDESC"),
		Token:               os.Getenv("KBC_TOKEN"),
		URL:                 os.Getenv("KBC_URL"),
		RealUser:            os.Getenv("KBC_REALUSER"),
		LoggerAddr:          os.Getenv("KBC_LOGGER_ADDR"),
		LoggerPort:          os.Getenv("KBC_LOGGER_PORT"),
		DataTypeSupport:     os.Getenv("KBC_DATA_TYPE_SUPPORT"),
	}
}
