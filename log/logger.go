package log

import (
	"os"
	"path/filepath"

	"github.com/casetrack/casetrack-app/conf"
	"github.com/sirupsen/logrus"
)

var (
	Engine logrus.FieldLogger
	Import logrus.FieldLogger
	CLI    logrus.FieldLogger
)

func init() {
	Engine = Logger(logrus.New(), conf.GetEnv("CASETRACK_ERROR_LOG"),
		"engine", conf.GetEnv("ENVIRONMENT"))
	Import = Logger(logrus.New(), conf.GetEnv("CASETRACK_IMPORT_LOG"),
		"import", conf.GetEnv("ENVIRONMENT"))
	CLI = Logger(logrus.New(), conf.GetEnv("CASETRACK_CLI_LOG"),
		"cli", conf.GetEnv("ENVIRONMENT"))
}

func Logger(logger *logrus.Logger, outputFile string,
	application, environment string) logrus.FieldLogger {

	if outputFile != "" {
		if file, err := os.OpenFile(filepath.Clean(outputFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
			logger.SetOutput(file)
		} else {
			logger.Infof("Failed to open output file %s. Will use stderr. %s",
				outputFile, err.Error())
		}
	}

	return logger.WithFields(logrus.Fields{
		"application": application,
		"environment": environment})
}
