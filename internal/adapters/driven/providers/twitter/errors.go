package twitter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// legacyCodeStatus maps Twitter's legacy numeric error codes to the
// stable internal statuses carried in response envelopes.
var legacyCodeStatus = map[int]string{
	32:  "unauthorized",
	34:  "not_found",
	63:  "suspended",
	64:  "account_suspended",
	88:  "rate_limit",
	89:  "invalid_token",
	130: "over_capacity",
	131: "internal_error",
	215: "bad_authentication",
	326: "account_locked",
}

// errorResponse covers both the v2 problem shape and the legacy
// errors array, either of which can appear on a rejection.
type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"errors"`
}

// providerError converts a rejection body into a ProviderError. The
// legacy code, when present, picks the stable status; otherwise the
// HTTP status decides.
func providerError(httpStatus int, body []byte) *domain.ProviderError {
	perr := &domain.ProviderError{
		Platform: domain.ProviderTwitter,
		Status:   "error",
		Message:  fmt.Sprintf("twitter api returned %d", httpStatus),
		Detail:   string(body),
	}

	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Title != "" {
			perr.Message = resp.Title
			perr.Detail = resp.Detail
		}
		if len(resp.Errors) > 0 {
			first := resp.Errors[0]
			perr.Code = first.Code
			if first.Message != "" {
				perr.Message = first.Message
			} else if first.Detail != "" {
				perr.Message = first.Detail
			}
		}
	}

	switch {
	case perr.Code != 0 && legacyCodeStatus[perr.Code] != "":
		perr.Status = legacyCodeStatus[perr.Code]
	case httpStatus == http.StatusTooManyRequests:
		perr.Status = "rate_limit"
	case httpStatus == http.StatusUnauthorized, httpStatus == http.StatusForbidden:
		perr.Status = "unauthorized"
	case httpStatus == http.StatusNotFound:
		perr.Status = "not_found"
	}
	return perr
}
