// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strconv"
)

// ClassificationRecord is one row of the industry classification flat file.
type ClassificationRecord struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// String renders the record the way listings show it.
func (r ClassificationRecord) String() string {
	return fmt.Sprintf("%s %s", r.Code, r.Name)
}

// HashRecords returns a digest identifying an ordered record set.
func HashRecords(records []ClassificationRecord) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.Code))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(r.Level)))
		h.Write([]byte{0})
		h.Write([]byte(r.Name))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
