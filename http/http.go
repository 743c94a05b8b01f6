package http

const (
	// ReadChunkSize bounds a single read from the connection.
	ReadChunkSize = 8 * 1024
	// MaxRequestSize bounds the bytes buffered while waiting for a complete header block.
	MaxRequestSize = 8 * 1024
	// MaxRequestHeaders bounds the number of header lines accepted per request.
	MaxRequestHeaders = 100
)

// ExtraHeader is sent with every response so browsers can read served files cross-origin.
const ExtraHeader = "Access-Control-Allow-Origin: *"

const (
	MessageFileNotFound  = "File not found."
	MessageBadFilename   = "Bad filename."
	MessageFileProtected = "File is protected."
)

var (
	crlf           = []byte("\r\n")
	headerBlockEnd = []byte("\r\n\r\n")
	bareBlockEnd   = []byte("\n\n")
)

// ServerInfo identifies the responder in the Server header.
type ServerInfo struct {
	Name string
	URL  string
}

func (info ServerInfo) String() string {
	if info.URL == "" {
		return info.Name
	}
	return info.Name + " (" + info.URL + ")"
}
