package realtime

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

type (
	// wsDialer opens WebSocket connections using fasthttp/websocket.
	wsDialer struct {
		dialer       *websocket.Dialer
		logger       Logger
		writeTimeout time.Duration
	}

	// wsSocket wraps a live *websocket.Conn behind the Socket interface.
	// The write mutex serializes frame and control writes, since the
	// underlying connection supports one concurrent writer.
	wsSocket struct {
		conn         *websocket.Conn
		logger       Logger
		writeTimeout time.Duration
		writeMu      sync.Mutex
	}
)

// NewWebsocketDialer returns the production Dialer.
func NewWebsocketDialer(logger Logger, handshakeTimeout, writeTimeout time.Duration) Dialer {
	return &wsDialer{
		dialer:       &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		logger:       logger.WithField("net", "ws_connection"),
		writeTimeout: writeTimeout,
	}
}

func (d *wsDialer) Dial(uri string) (Socket, error) {
	conn, resp, err := d.dialer.Dial(uri, nil)

	if err = handleDialError(resp, err); err != nil {
		d.logger.Errorf("connection err to %s: %s", uri, err)
		return nil, err
	}

	d.logger.Debugf("success opening connection to %s", uri)

	return &wsSocket{
		conn:         conn,
		logger:       d.logger,
		writeTimeout: d.writeTimeout,
	}, nil
}

func (w *wsSocket) ReadMessage() ([]byte, error) {
	_, bts, err := w.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	w.logger.Debugf("<= [DATA] %s", bts)
	return bts, nil
}

func (w *wsSocket) WriteMessage(data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.logger.Debugf("=> [DATA] %s", data)
	_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsSocket) WriteClose(code int) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.logger.Debugln("=> [CLOSE]")
	deadline := time.Now().Add(w.writeTimeout)
	return w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		deadline,
	)
}

func (w *wsSocket) Close() error {
	return w.conn.Close()
}

// closeCode extracts the close code and reason from a read error. Anything
// that is not an explicit close frame counts as abnormal closure.
func closeCode(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, ""
}

func handleDialError(resp *http.Response, err error) error {
	// 1. Check HTTP errors first
	var msg string

	if resp != nil {
		if resp.Body != nil {
			bts, err := io.ReadAll(resp.Body)
			if err == nil {
				msg = string(bts)
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return errors.Wrap(ErrRateLimit, msg)
		}
	}

	// 2. Network errors
	if err != nil {
		return errors.Wrap(ErrCannotConnect, err.Error())
	}

	return nil
}
