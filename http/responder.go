package http

import (
	"github.com/dustin/go-humanize"
	"github.com/freekieb7/fileresponder/filesystem"
)

// respond answers a resolved GET or HEAD. The steps run strictly in order: stat,
// directory check, open, headers, body. The opened file is released on every path.
func (h *Handler) respond(conn *Conn, req *Request, filePath string, recommended Status, keepAlive bool) Outcome {
	protocol := req.Protocol

	fail := func(kind ErrorKind, status Status, message string, err error) Outcome {
		outcome := failed(protocol, keepAlive, NewError(kind, status, message, err))
		outcome.Method = req.Method
		outcome.Path = filePath
		return h.sendError(conn, outcome)
	}

	info, err := h.Filesystem.Stat(filePath)
	if err != nil {
		return fail(NotFound, StatusNotFound, MessageFileNotFound, err)
	}

	if info.IsDir() {
		return fail(IsDirectory, StatusBadRequest, MessageBadFilename, nil)
	}

	file, err := h.Filesystem.Open(filePath)
	if err != nil {
		h.Logger.Warn("failed to open file", "conn.id", conn.ID, "path", filePath, "error", err)
		return fail(PermissionDenied, StatusForbidden, MessageFileProtected, err)
	}
	defer filesystem.Close(file, filePath)

	if recommended.IsError() {
		h.Logger.Info("observer rejected request", "conn.id", conn.ID, "path", filePath, "status", int(recommended))
		return fail(PermissionDenied, recommended, recommended.Text()+".", nil)
	}

	size := info.Size()
	outcome := Outcome{
		Kind:      OutcomeHeaders,
		Status:    StatusOK,
		Protocol:  protocol,
		KeepAlive: keepAlive,
		Method:    req.Method,
		Path:      filePath,
		Size:      size,
	}

	mimeType := MimeType(req.URL.FileName())
	if err := conn.SendHeaders(protocol, StatusOK, ExtraHeader, mimeType, size, info.ModTime(), keepAlive, h.Info); err != nil {
		h.Logger.Error("failed to send headers", "conn.id", conn.ID, "path", filePath, "error", err)
		outcome.Err = NewError(HeaderSendFailure, StatusOK, "", err)
		return outcome
	}

	if req.Method != MethodGet {
		return outcome
	}

	outcome.Kind = OutcomeBody
	sent, err := conn.SendFile(file, size)
	outcome.Sent = sent
	if err != nil {
		h.Logger.Error("failed to send file", "conn.id", conn.ID, "path", filePath, "sent", sent, "error", err)
		outcome.Err = NewError(BodySendFailure, StatusOK, "", err)
		return outcome
	}

	h.Logger.Debug("sent file", "conn.id", conn.ID, "path", filePath, "size", humanize.Bytes(uint64(size)))
	return outcome
}
