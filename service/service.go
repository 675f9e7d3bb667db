// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package service serves save inspection over JSON-RPC 2.0.
package service

import (
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/luxfi/savegame"
	"github.com/luxfi/savegame/catalog"
	"github.com/luxfi/savegame/inspect"
)

// Name is the name the service is registered under; methods are called as
// "savegame.Inspect".
const Name = "savegame"

// InspectArgs are the arguments of savegame.Inspect.
type InspectArgs struct {
	// Save is the complete save, base64 encoded on the wire.
	Save      []byte `json:"save"`
	Fields    bool   `json:"fields"`
	MaxFields int    `json:"maxFields"`
}

// CatalogArgs are the arguments of savegame.Catalog.
type CatalogArgs struct{}

// CatalogReply describes the catalog saves are inspected against.
type CatalogReply struct {
	Fingerprint string         `json:"fingerprint"`
	Categories  map[string]int `json:"categories"`
}

// Service inspects saves against one catalog.
type Service struct {
	catalog catalog.Catalog
	cfg     savegame.Config
	log     *slog.Logger
}

// New returns a service that inspects saves against c. A nil log discards.
func New(c catalog.Catalog, cfg savegame.Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{catalog: c, cfg: cfg, log: log}
}

// Inspect reports the header and translation tables of a save.
func (s *Service) Inspect(_ *http.Request, args *InspectArgs, reply *inspect.Report) error {
	report, err := inspect.Inspect(args.Save, s.catalog, s.cfg, inspect.Options{
		Fields:    args.Fields,
		MaxFields: args.MaxFields,
	})
	if err != nil {
		s.log.Debug("inspect failed", slog.Int("size", len(args.Save)), slog.Any("error", err))
		return &json2.Error{Code: json2.E_BAD_PARAMS, Message: err.Error()}
	}
	s.log.Debug("inspected save",
		slog.Int("size", report.Size),
		slog.Int("tables", len(report.Tables)),
		slog.Int("unresolved", report.Unresolved),
	)
	*reply = *report
	return nil
}

// Catalog reports the fingerprint and category sizes of the catalog.
func (s *Service) Catalog(_ *http.Request, _ *CatalogArgs, reply *CatalogReply) error {
	fp := catalog.Fingerprint(s.catalog)
	reply.Fingerprint = hex.EncodeToString(fp[:])
	reply.Categories = make(map[string]int)
	for _, c := range catalog.All() {
		if n := s.catalog.Len(c); n > 0 {
			reply.Categories[c.String()] = n
		}
	}
	return nil
}

// NewHandler returns the JSON-RPC endpoint for s. Request bodies are bounded
// by the configured save size.
func NewHandler(s *Service) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	if err := server.RegisterService(s, Name); err != nil {
		return nil, err
	}
	limit := int64(s.cfg.MaxSize)
	if limit <= 0 {
		limit = savegame.DefaultMaxSize
	}
	// Base64 inflates the save by a third, plus room for the envelope.
	limit = limit/3*4 + 4096
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		server.ServeHTTP(w, r)
	}), nil
}
