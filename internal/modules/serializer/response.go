package serializer

// Response is the generic API envelope.
type Response struct {
	Code  int    `json:"code"`
	Data  any    `json:"data,omitempty"`
	Msg   string `json:"msg"`
	Error string `json:"error,omitempty"`
}

const (
	CodeParamErr = 40001
	CodeNotFound = 40401
	CodeDBErr    = 50001
	CodeErr      = 50000
)

func Err(code int, msg string, err error) Response {
	res := Response{
		Code: code,
		Msg:  msg,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "invalid parameters"
	}
	return Err(CodeParamErr, msg, err)
}

func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(CodeDBErr, msg, err)
}

func NotFound(msg string) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(CodeNotFound, msg, nil)
}

// IngestResponse is the envelope of the upload-artefact endpoint. It keeps the
// exact wire shape the catalog frontend consumes: success/id/message on 200,
// success:false/error on 500.
type IngestResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func IngestOK(id string) IngestResponse {
	return IngestResponse{
		Success: true,
		ID:      id,
		Message: "artefact created",
	}
}

func IngestErr(err error) IngestResponse {
	res := IngestResponse{Success: false}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
