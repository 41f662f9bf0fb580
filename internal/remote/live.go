package remote

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/e-Diag/CalendarBot/internal/model"
)

// LiveFeed subscribes to the planner's push channel: a websocket that
// delivers the owner's full item collection as a JSON array whenever
// any record changes.
type LiveFeed struct {
	wsURL  string
	dialer *websocket.Dialer
}

// NewLiveFeed creates a feed for the service at baseURL. The http(s)
// scheme is rewritten to ws(s) for the stream endpoint.
func NewLiveFeed(baseURL string) *LiveFeed {
	url := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	return &LiveFeed{
		wsURL: url + "/api/items/ws",
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
	}
}

// Subscribe opens the stream and invokes onSnapshot for every
// collection snapshot until the returned unsubscribe function is
// called or the connection fails. onError is invoked at most once,
// when the stream dies for any reason other than unsubscribing.
// Unsubscribing is idempotent.
func (f *LiveFeed) Subscribe(
	ctx context.Context,
	s model.Session,
	onSnapshot func([]model.Item),
	onError func(error),
) (func(), error) {
	header := http.Header{}
	header.Set("Authorization", s.Token)

	conn, resp, err := f.dialer.DialContext(ctx, f.wsURL, header)
	if err != nil {
		kind := KindNetwork
		status := 0
		if resp != nil {
			status = resp.StatusCode
			switch resp.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				kind = KindUnauthorized
			default:
				kind = KindServer
			}
		}
		return nil, &Error{Kind: kind, Op: "WS " + f.wsURL, Status: status, Err: err}
	}

	var once sync.Once
	closed := make(chan struct{})
	unsubscribe := func() {
		once.Do(func() {
			close(closed)
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			_ = conn.Close()
		})
	}

	go func() {
		for {
			var items []model.Item
			if err := conn.ReadJSON(&items); err != nil {
				select {
				case <-closed:
					// Deliberate unsubscribe; not an error.
				default:
					unsubscribe()
					onError(&Error{Kind: KindNetwork, Op: "WS read", Err: err})
				}
				return
			}
			onSnapshot(items)
		}
	}()

	return unsubscribe, nil
}
