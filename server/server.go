// Package server exposes a tabdb engine over the wire protocol.
//
// The engine itself is single-threaded by contract; the server is the
// serialization layer around it. One RWMutex guards all engine access:
// writes (create table, insert) take the write lock, queries the read lock.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tabdb"
	"tabdb/internal/config"
	"tabdb/parser"
	"tabdb/query"
	"tabdb/value"
	"tabdb/wire"
)

// Server accepts wire-protocol connections and dispatches them against one
// engine instance.
type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *tabdb.Engine
	mu     sync.RWMutex // serializes engine access

	ln         net.Listener
	connPool   *ants.Pool
	metricsSrv *http.Server
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once

	// connMu guards conns, the set of currently open client connections.
	// Stop closes them so handlers blocked reading a frame unblock.
	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// New builds a server around a fresh engine.
func New(cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		log:    log,
		engine: tabdb.New(),
		quit:   make(chan struct{}),
		conns:  make(map[net.Conn]struct{}),
	}
	if cfg.MaxConnections > 0 {
		pool, err := ants.NewPool(cfg.MaxConnections, ants.WithPanicHandler(func(v any) {
			log.Error("connection handler panic", zap.Any("panic", v))
		}))
		if err != nil {
			return nil, fmt.Errorf("create connection pool: %w", err)
		}
		s.connPool = pool
	}
	return s, nil
}

// Start binds the listener and begins serving. It returns once the server
// is accepting; use Stop to shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	s.log.Info("tabdb server listening", zap.String("addr", ln.Addr().String()))

	if s.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		s.metricsSrv = &http.Server{Addr: s.cfg.MetricsAddr, Handler: mux}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listener address (useful with ":0" in tests).
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.ListenAddr
	}
	return s.ln.Addr().String()
}

// Stop closes the listener and every open client connection, drains handlers
// and releases the pool. Safe to call more than once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.ln != nil {
			s.ln.Close()
		}
		if s.metricsSrv != nil {
			s.metricsSrv.Close()
		}

		// Handlers block in ReadHeader between frames; closing their
		// connections is what unblocks them, so this must precede the wait.
		s.connMu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.connMu.Unlock()

		s.wg.Wait()
		if s.connPool != nil {
			s.connPool.Release()
		}
	})
	return nil
}

func (s *Server) trackConn(conn net.Conn) {
	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	s.connMu.Unlock()
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				s.log.Warn("accept failed", zap.Error(err))
				continue
			}
		}

		s.trackConn(conn)
		s.wg.Add(1)
		handle := func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}
		if s.connPool != nil {
			if err := s.connPool.Submit(handle); err != nil {
				s.log.Warn("connection rejected", zap.Error(err))
				conn.Close()
				s.untrackConn(conn)
				s.wg.Done()
			}
		} else {
			go handle()
		}
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer s.untrackConn(conn)
	connectionsOpen.Inc()
	defer connectionsOpen.Dec()

	session := uuid.NewString()
	log := s.log.With(
		zap.String("session", session),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	log.Debug("connection opened")
	defer log.Debug("connection closed")

	for {
		header, err := wire.ReadHeader(conn)
		if err != nil {
			select {
			case <-s.quit:
				// Stop closed the connection under us.
			default:
				if !errors.Is(err, io.EOF) {
					log.Warn("read header failed", zap.Error(err))
				}
			}
			return
		}

		start := time.Now()
		opName, err := s.dispatch(conn, header, log)
		opDuration.WithLabelValues(opName).Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
			log.Info("request failed", zap.String("op", opName), zap.Error(err))
			if err := s.sendError(conn, err); err != nil {
				return
			}
		}
		opsTotal.WithLabelValues(opName, status).Inc()
	}
}

// dispatch reads one request body, executes it and writes the success
// reply. Returned errors are reported to the client by the caller.
func (s *Server) dispatch(conn net.Conn, header wire.Header, log *zap.Logger) (string, error) {
	switch header.OpCode {
	case wire.OpPing:
		if _, err := wire.ReadRawBody(conn, header.Length); err != nil {
			return "ping", err
		}
		return "ping", wire.WriteMessage(conn, wire.OpReply, wire.Reply{})

	case wire.OpCreateTable:
		var req wire.CreateTableRequest
		if err := s.readRequest(conn, header, &req); err != nil {
			return "create_table", err
		}
		if err := s.authorize(req.Token); err != nil {
			return "create_table", err
		}
		columns := make([]tabdb.Column, len(req.Columns))
		for i, def := range req.Columns {
			t, err := value.ParseType(def.Type)
			if err != nil {
				return "create_table", fmt.Errorf("column %q: %w", def.Name, err)
			}
			columns[i] = tabdb.Column{Name: def.Name, Type: t, Indexed: def.Indexed}
		}
		s.mu.Lock()
		s.engine.CreateTable(req.Table, columns)
		s.mu.Unlock()
		log.Info("table created", zap.String("table", req.Table), zap.Int("columns", len(columns)))
		return "create_table", wire.WriteMessage(conn, wire.OpReply, wire.Reply{})

	case wire.OpInsert:
		var req wire.InsertRequest
		if err := s.readRequest(conn, header, &req); err != nil {
			return "insert", err
		}
		if err := s.authorize(req.Token); err != nil {
			return "insert", err
		}
		s.mu.Lock()
		err := s.engine.Insert(req.Table, req.Row)
		s.mu.Unlock()
		if err != nil {
			return "insert", err
		}
		return "insert", wire.WriteMessage(conn, wire.OpReply, wire.Reply{Count: 1})

	case wire.OpQuery:
		var req wire.QueryRequest
		if err := s.readRequest(conn, header, &req); err != nil {
			return "query", err
		}
		if err := s.authorize(req.Token); err != nil {
			return "query", err
		}
		reply, err := s.execute(req.SQL)
		if err != nil {
			return "query", err
		}
		return "query", wire.WriteMessage(conn, wire.OpReply, *reply)

	default:
		// Drain the unknown body so the stream stays framed.
		if _, err := wire.ReadRawBody(conn, header.Length); err != nil {
			return "unknown", err
		}
		return "unknown", fmt.Errorf("unknown opcode %d", header.OpCode)
	}
}

// readRequest reads the body, validates it against the op's JSON Schema and
// decodes it into req.
func (s *Server) readRequest(conn net.Conn, header wire.Header, req interface{}) error {
	raw, err := wire.ReadRawBody(conn, header.Length)
	if err != nil {
		return err
	}
	if err := validateRequest(header.OpCode, raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, req)
}

var errUnauthorized = errors.New("unauthorized")

func (s *Server) authorize(token string) error {
	if s.cfg.AuthToken != "" && token != s.cfg.AuthToken {
		return errUnauthorized
	}
	return nil
}

// execute parses query text and runs the resulting statement against the
// engine under the appropriate lock.
func (s *Server) execute(sql string) (*wire.Reply, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	switch st := stmt.(type) {
	case *parser.CreateTableStmt:
		s.mu.Lock()
		s.engine.CreateTable(st.Table, st.Columns)
		s.mu.Unlock()
		return &wire.Reply{}, nil

	case *parser.InsertStmt:
		s.mu.Lock()
		err := s.engine.Insert(st.Table, st.Row)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return &wire.Reply{Count: 1}, nil

	case *parser.SelectStmt:
		s.mu.RLock()
		rows, err := s.engine.Select(st.Table, st.Query)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		columns, err := s.resultColumns(st.Table, st.Query)
		s.mu.RUnlock()
		if err != nil {
			return nil, err
		}
		return &wire.Reply{Columns: columns, Rows: rows, Count: len(rows)}, nil
	}
	return nil, fmt.Errorf("unsupported statement %T", stmt)
}

// resultColumns names the columns of a select result: the projection list,
// or the full schema order when no projection was given.
func (s *Server) resultColumns(table string, q query.Query) ([]string, error) {
	if q.Columns != nil {
		return q.Columns, nil
	}
	schema, err := s.engine.Schema(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(schema))
	for i, col := range schema {
		names[i] = col.Name
	}
	return names, nil
}

func (s *Server) sendError(conn net.Conn, cause error) error {
	return wire.WriteMessage(conn, wire.OpError, wire.Reply{Error: cause.Error()})
}
