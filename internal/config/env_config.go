package config

const (
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	logLevelVar   = "LOG_LEVEL"
	configFileVar = "LANKACONNECT_CONFIG"
)

type EnvVars struct {
	sources
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.resolve(e.overrides.AppName, appNameVar, e.file.AppName, "LankaConnect")
}

func (e EnvVars) GetEnv() string {
	return e.resolve(e.overrides.Env, envVar, e.file.Env, "DEV")
}

func (e EnvVars) GetLogLevel() string {
	return e.resolve(e.overrides.LogLevel, logLevelVar, e.file.LogLevel, "info")
}
