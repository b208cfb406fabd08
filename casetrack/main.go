package main

import (
	"os"

	"github.com/casetrack/casetrack-app/casetrack/casetrackcli"
	"github.com/casetrack/casetrack-app/log"
)

func main() {
	if err := casetrackcli.GetApp().Run(os.Args); err != nil {
		log.CLI.Fatal(err)
	}
}
