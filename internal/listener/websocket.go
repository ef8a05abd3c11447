// Package listener accepts websocket connections and runs one session per
// client, bridging the socket to the player manager and the message bus.
package listener

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-log"
)

type WebsocketListener struct {
	port     uint16
	cm       *ConnectionManager
	upgrader websocket.Upgrader
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	// Create a cancelable context for all connections
	connCtx, cancelConns := context.WithCancel(context.Background())
	defer cancelConns()

	logger := log.GetLogger(ctx)

	var wg sync.WaitGroup
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := l.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("upgrading connection: %s", err)
			return
		}

		wg.Add(1)
		defer wg.Done()

		l.cm.AcceptConnection(log.SetLogger(connCtx, logger), ws)
	})

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	// done signals that Start is returning (either success or failure)
	done := make(chan struct{})
	defer close(done)

	// When parent context is canceled, stop accepting and cancel all connections
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := svr.Shutdown(shutdownCtx); err != nil {
				logger.Errorf("shutting down websocket server: %s", err)
			}
			cancelConns()
		case <-done:
			// Start returned (likely with error) - nothing to stop
		}
	}()

	logger.Infof("websocket server listening on port %d", l.port)

	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}

	wg.Wait()
	return nil
}
