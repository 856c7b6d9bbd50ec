package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mitchsmii/EllaRises/internal/app/donations"
)

type donationRequest struct {
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       *string `json:"phone"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	AmountCents int64   `json:"amountCents"`
}

func (s *Server) handleRecordDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := s.Donations.Record(r.Context(), donations.RecordInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		City:        req.City,
		State:       req.State,
		AmountCents: req.AmountCents,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "thank you for your donation", donationFromDomain(d))
}
