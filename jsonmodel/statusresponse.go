package jsonmodel

type StatusResponse struct {
	Accepted     int64  `json:"accepted"`
	Active       int64  `json:"active"`
	BytesDrained int64  `json:"bytesDrained"`
	UptimeSec    int64  `json:"uptimeSec"`
	LastSession  string `json:"lastSession,omitempty"`
}
