package server

import (
	"encoding/json"
	"net/http"
)

// envelope es el sobre {data, message, status} que espera el front-end:
// el status viaja también en el body, no solo en el header.
type envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, envelope{Data: data, Message: "ok", Status: status})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, envelope{Data: nil, Message: message, Status: status})
}

func writeEnvelope(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	_ = json.NewEncoder(w).Encode(env)
}
