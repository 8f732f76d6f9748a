// Package serve exposes search over newline-delimited JSON on a stream pair.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming matcher
type Server struct {
	core    *search.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *search.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run sends the ready message, then serves requests until the input ends,
// a "close" request arrives, or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Stops the reader goroutine once Run returns; a Decode already blocked
	// on input returns with the next line and then exits.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			if ctx.Err() != nil {
				return
			}
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// A request decoded just before EOF may still be queued.
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	switch req.Type {
	case "match":
		s.handleMatch(ctx, req.Payload)
	case "match_batch":
		s.handleMatchBatch(ctx, req.Payload)
	case "list":
		s.handleList()
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Matchers: s.core.Registry().Len()})
}

func (s *Server) handleMatch(ctx context.Context, payload json.RawMessage) {
	var p MatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("match", err.Error())
		return
	}

	result, err := s.core.Search(ctx, p.Request())
	if err != nil {
		s.sendError("match", err.Error())
		return
	}

	s.send("match", result)
}

func (s *Server) handleMatchBatch(ctx context.Context, payload json.RawMessage) {
	var p MatchBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("match_batch", err.Error())
		return
	}

	reqs := make([]search.Request, 0, len(p.Items))
	for _, item := range p.Items {
		reqs = append(reqs, item.Request())
	}

	result, err := s.core.SearchBatch(ctx, reqs)
	if err != nil {
		s.sendError("match_batch", err.Error())
		return
	}

	s.send("match_batch", result)
}

func (s *Server) handleList() {
	reg := s.core.Registry()
	entries := reg.All()

	data := ListData{
		Default:  reg.Default().Name(),
		Matchers: make([]types.Descriptor, 0, len(entries)),
	}
	for _, e := range entries {
		data.Matchers = append(data.Matchers, e.Descriptor)
	}

	s.send("list", data)
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
