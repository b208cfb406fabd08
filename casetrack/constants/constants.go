package constants

const ImportInprog = "In-Progress"
const ImportComplete = "Completed"
const ImportFail = "Failed"

// Document names inside the user-selected data directory.
const AlertsDocument = "alerts.json"
const CasesDocument = "cases.json"

// AlertSource identifies records created from the external alerts report.
const AlertSource = "CASEALERTS"

// Export drop naming convention: CASEALERTS.RPT.Dyymmdd.Thhmmss[.csv|.txt]
const ExportTimeFormat = "D060102.T150405"

const TestMCNumber = "1234567"
