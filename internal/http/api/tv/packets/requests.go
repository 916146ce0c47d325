package packets

type PlaybackReportRequest struct {
	Generation uint64 `json:"generation"`
	Reason     string `json:"reason,omitempty"`
}
