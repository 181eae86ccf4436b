package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("submit_order", cause)

	if !errors.Is(err, cause) {
		t.Error("TransportError should unwrap to its cause")
	}
	if err.Error() != "submit_order: connection refused" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestExchangeRejection_Message(t *testing.T) {
	raw := json.RawMessage(`{"code":-2019,"msg":"Margin is insufficient."}`)
	rej := &ExchangeRejection{Code: -2019, Msg: "Margin is insufficient.", Raw: raw}

	if rej.Error() != "exchange rejection: code=-2019 msg=Margin is insufficient." {
		t.Errorf("unexpected message: %s", rej.Error())
	}
}

func TestIsOrderNotFound(t *testing.T) {
	notFound := &ExchangeRejection{Code: -2013, Msg: "Order does not exist."}
	if !IsOrderNotFound(notFound) {
		t.Error("code -2013 should be reported as not found")
	}

	wrapped := fmt.Errorf("query failed: %w", notFound)
	if !IsOrderNotFound(wrapped) {
		t.Error("wrapped rejection should still match")
	}

	other := &ExchangeRejection{Code: -2019, Msg: "Margin is insufficient."}
	if IsOrderNotFound(other) {
		t.Error("other rejection codes are not not-found")
	}

	if IsOrderNotFound(errors.New("plain")) {
		t.Error("plain errors are not not-found")
	}
}
