package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

type Server struct {
	addr     string
	cfg      config.Config
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func New(addr string, cfg config.Config, log *logrus.Logger) *Server {
	return &Server{
		addr: addr,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// serveWs runs the per-connection message loop until the client disconnects.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.WithField("remote", r.RemoteAddr)
	log.Info("client connected")

	hub := NewHub(s.cfg, conn, log)
	defer hub.Stop()

	for {
		var msg Msg
		if err := conn.ReadJSON(&msg); err != nil {
			log.WithError(err).Info("client disconnected")
			return
		}
		hub.Handle(msg)
	}
}

// servePresets lists the scenario names a client may request.
func (s *Server) servePresets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experiment.Names())
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/presets", s.servePresets)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) Serve() error {
	s.log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, s.Handler())
}
