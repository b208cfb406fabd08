package conf

/*
   Wraps viper for the casetrack app. Configuration is an env file named
   local.env; if no file is found at a known location, the package falls
   back to plain environment variables. Once loaded, configuration is
   treated as immutable for the uptime of the application (tests excepted,
   via SetEnv/UnsetEnv).
*/

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// The viper instance holding loaded configuration. Only reachable through
// GetEnv, LookupEnv, SetEnv and UnsetEnv.
var envVars viper.Viper

const (
	configgood    uint8 = 0
	configbad     uint8 = 1
	noconfigfound uint8 = 2
)

var state = configgood

func setup(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("local")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	// Viper is lazy; force the read here so state reflects reality.
	if err := v.ReadInConfig(); err != nil {
		state = configbad
	}
	return v
}

func init() {
	locations := []string{
		"./shared_files",
		"/etc/casetrack",
	}

	if success, loc := findEnv(locations); success {
		envVars = *setup(loc)
	} else {
		state = noconfigfound
	}
}

func findEnv(locations []string) (bool, string) {
	for _, loc := range locations {
		if _, err := os.Stat(loc + "/local.env"); err == nil {
			return true, loc
		}
	}
	return false, ""
}

// GetEnv retrieves the value stored in conf, falling back to the process
// environment. Missing keys return "".
func GetEnv(key string) string {
	if state == configgood {
		value := envVars.GetString(key)
		if value == "" {
			// Key not tracked by conf; consult the environment and copy the
			// result over to avoid repeated OS calls.
			var found bool
			value, found = os.LookupEnv(key)
			if found {
				test := &testing.T{}
				_ = SetEnv(test, key, value)
			}
		}
		return value
	}

	return os.Getenv(key)
}

// LookupEnv augments os.LookupEnv to consult the viper instance first.
func LookupEnv(key string) (string, bool) {
	if state == configgood {
		if value := envVars.Get(key); value != nil && value != "" {
			return value.(string), true
		}
		if v, exist := os.LookupEnv(key); exist {
			test := &testing.T{}
			_ = SetEnv(test, key, v)
			return v, exist
		}
		return "", false
	}

	return os.LookupEnv(key)
}

// SetEnv adds a key/value to conf. The *testing.T parameter is there so
// callers outside this package knowingly restrict use to tests.
func SetEnv(protect *testing.T, key string, value string) error {
	var err error
	if state == configgood {
		envVars.Set(key, value)
	} else {
		err = os.Setenv(key, value)
	}
	return err
}

// UnsetEnv removes a variable from both conf and the environment.
func UnsetEnv(protect *testing.T, key string) error {
	if state == configgood {
		envVars.Set(key, "")
	}
	return os.Unsetenv(key)
}
