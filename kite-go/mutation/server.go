package mutation

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kiteco/dnamutation/kite-golib/rollbar"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// IndexEndpoint identifies the service
	IndexEndpoint = "/"
	// DetectEndpoint classifies a submitted sequence
	DetectEndpoint = "/detect_mutations"
	// PerformanceEndpoint reports test set metrics
	PerformanceEndpoint = "/performance_analysis"

	serviceName = "Mutation Detection"
)

// Server exposes a Pipeline over HTTP.
type Server struct {
	pipeline *Pipeline
	logger   *zap.SugaredLogger
}

// NewServer registers the mutation detection routes on router.
func NewServer(router *mux.Router, pipeline *Pipeline, logger *zap.SugaredLogger) *Server {
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	router.HandleFunc(IndexEndpoint, s.handleIndex).Methods("GET")
	router.HandleFunc(DetectEndpoint, s.handleDetectMutations).Methods("POST")
	router.HandleFunc(PerformanceEndpoint, s.handlePerformanceAnalysis).Methods("GET")

	return s
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, serviceName)
}

type detectRequest struct {
	Sequence string
}

func (s *Server) handleDetectMutations(w http.ResponseWriter, r *http.Request) {
	req, err := readDetectRequest(r)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}

	res, err := s.pipeline.DetectMutations(req.Sequence)
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePerformanceAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.pipeline.Analyze()
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// readDetectRequest parses a detection request body. Only a missing body field is treated as
// "not provided"; any other problem with the body is reported as such.
func readDetectRequest(r *http.Request) (*detectRequest, error) {
	buf, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, errors.WithStack(&ValidationError{Message: "Could not read request body."})
	}

	if !json.Valid(buf) {
		return nil, errors.WithStack(&ValidationError{Message: "Invalid JSON body."})
	}

	// a body that is valid JSON but not an object has no sequence field either
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(buf, &fields)

	raw, ok := fields["sequence"]
	if !ok {
		return nil, errors.WithStack(&ValidationError{Message: "Sequence not provided."})
	}

	var req detectRequest
	if err := json.Unmarshal(raw, &req.Sequence); err != nil || string(raw) == "null" {
		return nil, errors.WithStack(&ValidationError{Message: "Sequence must be a string."})
	}
	return &req, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	msg := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	}
	s.logger.Infow("rejected request", "error", msg)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeInternalError responds with the root cause message and the full trace of err.
func (s *Server) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	details := fmt.Sprintf("%+v", err)
	s.logger.Errorw("error serving request", "path", r.URL.Path, "error", err.Error(), "details", details)
	rollbar.RequestError(err, r)

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   errors.Cause(err).Error(),
		Details: details,
	})
}

func writeJSON(w http.ResponseWriter, status int, obj interface{}) {
	buf, err := json.Marshal(obj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf)
}
