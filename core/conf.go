package core

type Conf struct {
	Version            string `long:"version" description:"version of the qopt compiler" env:"QOPT_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"QOPT_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QOPT_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"QOPT_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QOPT_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QOPT_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QOPT_LOG_ROTATION_MAX_DAYS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QOPT_SETTING_PATH"`
	Topology           string `long:"topology" description:"target topology family" default:"linear" choice:"linear" choice:"ring" choice:"grid" choice:"heavy_hex" choice:"device" env:"QOPT_TOPOLOGY"`
	TopologyQubits     int    `long:"topology-qubits" description:"qubit count for linear/ring topologies" default:"5" env:"QOPT_TOPOLOGY_QUBITS"`
	TopologyRows       int    `long:"topology-rows" description:"row count for grid topologies" default:"2" env:"QOPT_TOPOLOGY_ROWS"`
	TopologyCols       int    `long:"topology-cols" description:"column count for grid topologies" default:"2" env:"QOPT_TOPOLOGY_COLS"`
	TopologyDistance   int    `long:"topology-distance" description:"distance parameter for heavy-hex topologies" default:"1" env:"QOPT_TOPOLOGY_DISTANCE"`
	DeviceSettingPath  string `long:"device-setting-path" description:"device setting file path for --topology=device" default:"./device_setting.toml" env:"QOPT_DEVICE_SETTING_PATH"`
	SkipOptimization   bool   `long:"skip-optimization" description:"route without running the pass pipeline" env:"QOPT_SKIP_OPTIMIZATION"`
	SkipRouting        bool   `long:"skip-routing" description:"optimize without adapting to a topology" env:"QOPT_SKIP_ROUTING"`
	EmitQASM           bool   `long:"emit-qasm" description:"print the compiled circuit as OpenQASM" env:"QOPT_EMIT_QASM"`
}
