package antourtransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/websocket"

	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/utils/str"
)

// checkOrigin accepts requests without an Origin header, from the serving
// host itself or from one of allowed. "*" in allowed accepts any origin.
func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || str.In("*", allowed) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host) || str.In(origin, allowed)
	}
}

const (
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageError    = "error"
)

type StreamMessage struct {
	Type     string                  `json:"type"`
	Progress *antourservice.Progress `json:"progress,omitempty"`
	Solution *antourservice.Solution `json:"solution,omitempty"`
	Err      string                  `json:"err,omitempty"`
	Status   int                     `json:"status,omitempty"`
}

// MakeStreamHandler serves runs over a websocket. Every text message is a
// solve configuration; a new one stops the run in flight on that connection
// before starting. Progress frames are sent after each generation, followed
// by a single result or error frame per run.
func MakeStreamHandler(s antourservice.Service, allowedOrigins []string, logger log.Logger) http.Handler {
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin(allowedOrigins)}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log("msg", "upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		st := &stream{conn: conn, service: s, logger: logger}
		st.serve(r.Context())
	})
}

type stream struct {
	conn    *websocket.Conn
	service antourservice.Service
	logger  log.Logger
	mtx     sync.Mutex
}

func (st *stream) write(m StreamMessage) {
	st.mtx.Lock()
	defer st.mtx.Unlock()
	if err := st.conn.WriteJSON(m); err != nil {
		st.logger.Log("msg", "write failed", "type", m.Type, "err", err)
	}
}

func (st *stream) fail(err error) {
	st.write(StreamMessage{Type: MessageError, Err: err.Error(), Status: errToStatus(err)})
}

func (st *stream) serve(ctx context.Context) {
	var (
		cancel = context.CancelFunc(func() {})
		done   = make(chan struct{})
	)
	close(done)
	defer func() {
		cancel()
		<-done
	}()

	for {
		_, b, err := st.conn.ReadMessage()
		if err != nil {
			return
		}
		cancel()
		<-done

		var c antourservice.Configuration
		if err := json.Unmarshal(b, &c); err != nil {
			st.fail(ErrBadRequest)
			continue
		}

		var runCtx context.Context
		runCtx, cancel = context.WithCancel(ctx)
		done = make(chan struct{})
		go st.run(runCtx, c, done)
	}
}

func (st *stream) run(ctx context.Context, c antourservice.Configuration, done chan<- struct{}) {
	defer close(done)
	sol, err := st.service.Watch(ctx, c, func(p antourservice.Progress) {
		st.write(StreamMessage{Type: MessageProgress, Progress: &p})
	})
	if err != nil {
		st.fail(err)
		return
	}
	st.write(StreamMessage{Type: MessageResult, Solution: &sol})
}
