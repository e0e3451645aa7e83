package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var errInvalidItemID = errors.New("invalid item id")

func formatItemID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseItemID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidItemID
	}
	return id, nil
}

func itemIDParam(r *http.Request) (int64, error) {
	return parseItemID(chi.URLParam(r, "itemID"))
}

func itemPath(id int64) string {
	return "/items/" + formatItemID(id)
}
