package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
)

var (
	errNotSupportedMethod = errorx.New(errorx.BadRequest, "Not supported method")
	errBadRequest         = errorx.New(errorx.BadRequest, "Cannot bind the request")
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context) {
	var resp response
	if err := xcontext.Error(ctx); err != nil {
		resp = newErrorResponse(err)
	} else {
		resp = newResponse(xcontext.Response(ctx))
	}

	if err := WriteJson(xcontext.HTTPWriter(ctx), resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
