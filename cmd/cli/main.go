// Command cli plays Napoleon from a terminal. Lines typed on stdin are sent
// to the server as commands and events are printed as they arrive.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/config"
	"github.com/minaorangina/napoleon/internal/logger"
)

func main() {
	addr := flag.String("addr", "localhost:8000", "server address")
	raw := flag.Bool("raw", false, "print events exactly as received")
	flag.Parse()

	log, err := logger.New(config.Log{Level: "warn"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("could not connect", zap.String("url", u.String()), zap.Error(err))
	}
	defer ws.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
					log.Warn("connection lost", zap.Error(err))
				}
				return
			}
			if *raw {
				fmt.Println(string(msg))
				continue
			}
			fmt.Println(describe(string(msg)))
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				<-done
				return
			}
			if line == "" {
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				log.Warn("send failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
