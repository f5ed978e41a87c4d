package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/relieftext/reliefocr/internal/multiplex"
	"github.com/relieftext/reliefocr/internal/orchestrate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve OCR requests over a websocket, one image per message",
	RunE:  runServe,
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 20,
	WriteBufferSize: 1 << 20,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Server.LogFilePath != "" {
		var w io.Writer = &lumberjack.Logger{
			Filename: cfg.Server.LogFilePath,
			MaxSize:  cfg.Server.LogMaxSizeMB,
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, nil)))
	}

	pipelineCfg, closeEngines, err := buildPipelineConfig(cfg)
	if err != nil {
		return err
	}
	defer closeEngines()

	mux := multiplex.New[image.Image, orchestrate.Result](orchestrate.Pipeline(pipelineCfg), cfg.Server.QueueDepth, slog.Default())

	http.HandleFunc("/ocr", func(w http.ResponseWriter, r *http.Request) {
		handleWS(mux, w, r)
	})

	slog.Info("serving", "addr", cfg.Server.Addr)
	return http.ListenAndServe(cfg.Server.Addr, nil)
}

func handleWS(mux *multiplex.Multiplexer[image.Image, orchestrate.Result], w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		img, _, err := image.Decode(&byteReader{b: data})
		if err != nil {
			_ = conn.WriteJSON(map[string]string{"error": fmt.Sprintf("decode image: %v", err)})
			continue
		}
		result, err := mux.Submit(context.Background(), img)
		if err != nil {
			_ = conn.WriteJSON(map[string]string{"error": err.Error()})
			continue
		}
		payload, _ := json.Marshal(result)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

type byteReader struct{ b []byte }

func (r *byteReader) Read(p []byte) (int, error) {
	n := copy(p, r.b)
	if n == 0 {
		return 0, io.EOF
	}
	r.b = r.b[n:]
	return n, nil
}
