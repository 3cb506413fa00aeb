package models

// AgeingStatus classifies how long an outlet balance has been pending.
type AgeingStatus string

const (
	AgeingOnTrack AgeingStatus = "on-track"
	AgeingWarning AgeingStatus = "warning"
	AgeingOverdue AgeingStatus = "overdue"
)

// Ageing thresholds in days.
const (
	AgeingWarningDays = 7
	AgeingOverdueDays = 8
)

// ClassifyAgeing maps a day count to its status.
// Below 7 is on-track, exactly 7 is a warning and 8 or more is overdue.
func ClassifyAgeing(days int) AgeingStatus {
	switch {
	case days < AgeingWarningDays:
		return AgeingOnTrack
	case days == AgeingWarningDays:
		return AgeingWarning
	default:
		return AgeingOverdue
	}
}

// OutletRecord is one row of the outlet summary table.
type OutletRecord struct {
	OutletCode    string       `json:"Outlet Code" msgpack:"Outlet Code"`
	OutletName    string       `json:"Outlet Name" msgpack:"Outlet Name"`
	AmountPending float64      `json:"Amount Pending" msgpack:"Amount Pending"`
	Ageing        int          `json:"Ageing" msgpack:"Ageing"`
	Status        AgeingStatus `json:"status" msgpack:"status"`
}

// OutletRow is an OutletRecord tagged with the upload it came from.
type OutletRow struct {
	OutletRecord
	FileIndex int    `json:"fileIndex" msgpack:"fileIndex"`
	FileName  string `json:"fileName" msgpack:"fileName"`
}

// FormatRule is a conditional cell style applied by the table widget.
type FormatRule struct {
	FilterQuery     string `json:"filterQuery"`
	ColumnID        string `json:"columnId"`
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color"`
}

// AgeingFormatRules returns the highlighting rules for the Ageing column.
func AgeingFormatRules() []FormatRule {
	return []FormatRule{
		{FilterQuery: "{Ageing} < 7", ColumnID: "Ageing", BackgroundColor: "green", Color: "white"},
		{FilterQuery: "{Ageing} = 7", ColumnID: "Ageing", BackgroundColor: "yellow", Color: "black"},
		{FilterQuery: "{Ageing} >= 8", ColumnID: "Ageing", BackgroundColor: "red", Color: "white"},
	}
}
