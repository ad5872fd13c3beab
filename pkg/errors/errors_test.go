package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeGateway, status: http.StatusBadRequest, publicMsg: "payment gateway error", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s: status %d, want %d", tt.code, meta.HTTPStatus, tt.status)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s: public message %q, want %q", tt.code, meta.PublicMessage, tt.publicMsg)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s: retryable %v, want %v", tt.code, meta.Retryable, tt.retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s: details allowed %v, want %v", tt.code, meta.DetailsAllowed, tt.detailsOK)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor("NO_SUCH_CODE")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to 500, got %d", meta.HTTPStatus)
	}
	if !meta.Retryable {
		t.Fatal("the internal fallback is marked retryable")
	}
}

func TestNewAndWithDetails(t *testing.T) {
	err := New(CodeValidation, "quantity must be positive")
	if err.Code() != CodeValidation {
		t.Fatalf("code = %s, want %s", err.Code(), CodeValidation)
	}
	if err.Message() != "quantity must be positive" {
		t.Fatalf("message = %q", err.Message())
	}
	if err.Details() != nil {
		t.Fatal("details must start nil")
	}
	if err.Error() != "VALIDATION_ERROR: quantity must be positive" {
		t.Fatalf("Error() = %q", err.Error())
	}

	err.WithDetails(map[string]any{"field": "quantity"})
	details, ok := err.Details().(map[string]any)
	if !ok || details["field"] != "quantity" {
		t.Fatalf("details not preserved: %v", err.Details())
	}
}

func TestWrapKeepsTheCauseChain(t *testing.T) {
	cause := stdErrors.New("pq: duplicate key value violates unique constraint")
	wrapped := Wrap(CodeConflict, cause, "creating review")

	if wrapped.Code() != CodeConflict {
		t.Fatalf("code = %s, want %s", wrapped.Code(), CodeConflict)
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("Wrap must keep the cause reachable via errors.Is")
	}
	if Wrap(CodeGateway, nil, "no cause").Unwrap() != nil {
		t.Fatal("wrapping nil should behave like New")
	}
}

func TestAsFindsTypedErrorsThroughWrapping(t *testing.T) {
	inner := New(CodeGateway, "card declined")
	chained := Wrap(CodeInternal, inner, "verify payment")

	if typed := As(chained); typed == nil || typed.Code() != CodeInternal {
		t.Fatalf("As should return the outermost typed error, got %v", typed)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("As on an untyped error must return nil")
	}
	if As(nil) != nil {
		t.Fatal("As(nil) must return nil")
	}
}

func TestDumpFlattensTheChain(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "redis session store")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("dump code = %s, want %s", dump.Code, CodeDependency)
	}
	if dump.TopMessage != err.Error() {
		t.Fatalf("dump top message = %q", dump.TopMessage)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain links, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if empty := Dump(nil); empty.TopMessage != "" || empty.Chain != nil {
		t.Fatalf("Dump(nil) should be zero, got %+v", empty)
	}
}
