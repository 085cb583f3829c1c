package http

import (
	"github.com/gin-gonic/gin"
)

// Server owns the engine that serves the engagement API. The app layer
// builds one from a RouterConfig and runs it; tests reach the engine
// directly through Engine.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run blocks serving HTTP on address until the listener fails.
func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
