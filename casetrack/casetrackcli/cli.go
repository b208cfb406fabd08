package casetrackcli

import (
	"fmt"

	"github.com/urfave/cli"

	ers "github.com/casetrack/casetrack-app/casetrack/errors"
	"github.com/casetrack/casetrack-app/casetrack/importer"
	"github.com/casetrack/casetrack-app/casetrack/index"
	"github.com/casetrack/casetrack-app/casetrack/models"
	"github.com/casetrack/casetrack-app/casetrack/storage"
	"github.com/casetrack/casetrack-app/conf"
	"github.com/casetrack/casetrack-app/log"
)

const Name = "casetrack"
const Usage = "Casetrack Alert Ingestion CLI"

func GetApp() *cli.App {
	return setUpApp()
}

func setUpApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage

	var dataDir, exportsDir string

	app.Commands = []cli.Command{
		{
			Name:  "import-alerts",
			Usage: "Import the newest alerts export and reconcile it against the stored alert collection",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "data-dir",
					Usage:       "Directory holding the casetrack JSON documents",
					EnvVar:      "CASETRACK_DATA_DIR",
					Destination: &dataDir,
				},
				cli.StringFlag{
					Name:        "exports-dir",
					Usage:       "Directory the alerts report exports are dropped into",
					EnvVar:      "ALERTS_EXPORT_DIR",
					Destination: &exportsDir,
				},
			},
			Action: func(c *cli.Context) error {
				return importAlerts(dataDir, exportsDir)
			},
		},
		{
			Name:  "show-alerts",
			Usage: "Print the alert index for the stored alert collection",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "data-dir",
					Usage:       "Directory holding the casetrack JSON documents",
					EnvVar:      "CASETRACK_DATA_DIR",
					Destination: &dataDir,
				},
				cli.BoolFlag{
					Name:  "open-only",
					Usage: "Exclude resolved alerts",
				},
			},
			Action: func(c *cli.Context) error {
				return showAlerts(dataDir, c.Bool("open-only"))
			},
		},
	}
	return app
}

func importAlerts(dataDir, exportsDir string) error {
	if dataDir == "" {
		dataDir = conf.GetEnv("CASETRACK_DATA_DIR")
	}
	if exportsDir == "" {
		exportsDir = conf.GetEnv("ALERTS_EXPORT_DIR")
	}
	if dataDir == "" || exportsDir == "" {
		return cli.NewExitError("both --data-dir and --exports-dir are required", 1)
	}

	store := &storage.Store{Logger: log.Import, Dir: dataDir}
	roster, err := store.ReadCases()
	if err != nil {
		log.CLI.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}

	imp := importer.Importer{
		Logger: log.Import,
		Source: storage.LocalExportSource{Logger: log.Import, Dir: exportsDir},
		Store:  store,
		Clock:  importer.SystemClock{},
	}

	result, err := imp.Run(roster)
	if err != nil {
		if _, ok := err.(*ers.ExportNotFound); ok {
			fmt.Println("No alerts export found, nothing to import.")
			return nil
		}
		log.CLI.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}

	fmt.Printf("Imported alerts: %d added, %d updated, %d total (%d records dropped).\n",
		result.Added, result.Updated, result.Total, result.Dropped)
	printSummary(result.Index)
	return nil
}

func showAlerts(dataDir string, openOnly bool) error {
	if dataDir == "" {
		dataDir = conf.GetEnv("CASETRACK_DATA_DIR")
	}
	if dataDir == "" {
		return cli.NewExitError("--data-dir is required", 1)
	}

	store := &storage.Store{Logger: log.CLI, Dir: dataDir}
	alerts, err := store.ReadAlerts()
	if err != nil {
		log.CLI.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}
	if openOnly {
		alerts = index.FilterOpen(alerts)
	}
	printSummary(index.Build(alerts))
	return nil
}

func printSummary(idx models.AlertsIndex) {
	fmt.Printf("Alerts: %d total, %d matched, %d unmatched, %d missing MC number.\n",
		idx.Summary.Total, idx.Summary.Matched, idx.Summary.Unmatched, idx.Summary.MissingMCN)
	fmt.Printf("Cases with alerts: %d.\n", len(idx.AlertsByCaseID))
}
