package transport

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/controller"
	"github.com/ethereum/go-ethereum/common"
)

var (
	errBadAddress = errors.New("invalid address")
	errBadID      = errors.New("invalid numeric id")
	errBadBody    = errors.New("invalid request body")
)

// envelope is the body of every API response.
type envelope struct {
	Data     any                 `json:"data,omitempty"`
	Status   controller.Status   `json:"status,omitempty"`
	Category controller.Category `json:"category,omitempty"`
	Message  string              `json:"message,omitempty"`
	RetryIn  int                 `json:"retryIn,omitempty"`
	Request  string              `json:"requestId"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func codeFor(category controller.Category) int {
	switch category {
	case controller.CategoryNotFound:
		return http.StatusNotFound
	case controller.CategoryActionFailed:
		return http.StatusUnprocessableEntity
	case controller.CategoryUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// writeView serves stale data with 200 when a refresh failed, and the
// failure itself only when nothing was ever loaded.
func writeView[T any](w http.ResponseWriter, r *http.Request, v controller.View[T], data func(T) any) {
	body := envelope{
		Status:   v.Status,
		Category: v.Category,
		Message:  v.Message,
		Request:  requestID(r),
	}
	if v.Status == controller.StatusError && !v.HasData() {
		writeFailure(w, body, v.RetryIn)
		return
	}
	body.Data = data(v.Data)
	if v.Status == controller.StatusError {
		body.RetryIn = retrySeconds(v.RetryIn)
	}
	writeJSON(w, http.StatusOK, body)
}

func writeFailure(w http.ResponseWriter, body envelope, retryIn time.Duration) {
	code := codeFor(body.Category)
	if code == http.StatusServiceUnavailable {
		body.RetryIn = retrySeconds(retryIn)
		w.Header().Set("Retry-After", strconv.Itoa(body.RetryIn))
	}
	writeJSON(w, code, body)
}

// writeError answers a direct call that failed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	retryIn := defaultRetry
	writeFailure(w, envelope{
		Status:   controller.StatusError,
		Category: controller.Categorize(err),
		Message:  controller.Message(err, retryIn),
		Request:  requestID(r),
	}, retryIn)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Status:  controller.StatusError,
		Message: err.Error(),
		Request: requestID(r),
	})
}

func writeAction(w http.ResponseWriter, r *http.Request, res controller.ActionResult) {
	if res.Err != nil {
		writeFailure(w, envelope{
			Status:   controller.StatusError,
			Category: res.Category,
			Message:  res.Message,
			Request:  requestID(r),
		}, defaultRetry)
		return
	}
	writeJSON(w, http.StatusAccepted, envelope{
		Data:    map[string]string{"txHash": res.TxHash.Hex()},
		Status:  controller.StatusReady,
		Request: requestID(r),
	})
}

func retrySeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

func parseAddress(v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, errBadAddress
	}
	return common.HexToAddress(v), nil
}

func parseID(v string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(v, 10)
	if !ok || id.Sign() < 0 {
		return nil, errBadID
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errBadBody
	}
	return nil
}
