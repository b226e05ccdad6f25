package galaxytest

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

type inboundRequest struct {
	w                   http.ResponseWriter
	r                   *http.Request
	reqBodySchemaLoader gojsonschema.JSONLoader
	reqBodyObj          interface{}
	endpointLogic       func() (interface{}, error)
	successCode         int
}

func readAndValidateRequestBody(
	w http.ResponseWriter,
	r *http.Request,
	bodySchemaLoader gojsonschema.JSONLoader,
	bodyObj interface{},
) bool {
	defer r.Body.Close()
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Println(errors.Wrap(err, "error reading request body"))
		writeAPIError(w, errInvalid("Could not read request body.", ""))
		return false
	}
	if bodySchemaLoader != nil {
		validationResult, err := gojsonschema.Validate(
			bodySchemaLoader,
			gojsonschema.NewBytesLoader(bodyBytes),
		)
		if err != nil {
			// Most likely the body wasn't JSON at all.
			log.Println(errors.Wrap(err, "error validating request body"))
			writeAPIError(w, errInvalid("JSON parse error.", err.Error()))
			return false
		}
		if !validationResult.Valid() {
			detail := ""
			for i, verr := range validationResult.Errors() {
				if i > 0 {
					detail += "; "
				}
				detail += verr.String()
			}
			writeAPIError(
				w,
				errInvalid("Request body failed JSON validation.", detail),
			)
			return false
		}
	}
	if bodyObj != nil {
		if err = json.Unmarshal(bodyBytes, bodyObj); err != nil {
			log.Println(errors.Wrap(err, "error unmarshaling request body"))
			writeAPIError(w, errInternalServer())
			return false
		}
	}
	return true
}

func serveRequest(req inboundRequest) {
	if req.reqBodySchemaLoader != nil || req.reqBodyObj != nil {
		if !readAndValidateRequestBody(
			req.w,
			req.r,
			req.reqBodySchemaLoader,
			req.reqBodyObj,
		) {
			return
		}
	}
	respBodyObj, err := req.endpointLogic()
	if err != nil {
		if apiErr, ok := errors.Cause(err).(*apiError); ok {
			writeAPIError(req.w, apiErr)
			return
		}
		log.Println(err)
		writeAPIError(req.w, errInternalServer())
		return
	}
	if req.successCode == http.StatusNoContent {
		req.w.WriteHeader(http.StatusNoContent)
		return
	}
	writeAPIResponse(req.w, req.successCode, respBodyObj)
}

func writeAPIError(w http.ResponseWriter, apiErr *apiError) {
	writeAPIResponse(w, apiErr.status, apiErr.envelope())
}

func writeAPIResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, ok := response.([]byte)
	if !ok {
		var err error
		if responseBody, err = json.Marshal(response); err != nil {
			log.Println(errors.Wrap(err, "error marshaling response body"))
		}
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
