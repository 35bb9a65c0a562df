package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"scene-server/internal/domain"
)

const (
	MagicHeader string = `SCNT` // 4 байта
	Version1    uint32 = 1
)

// TranscriptFileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type TranscriptFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Timestamp  int64   // 8 байт
	Zone       int32   // 4 байта
	EventCount int32   // 4 байта
}

// EventHeader - заголовок каждой записи. Тело - JSON события.
type EventHeader struct {
	AtMs       int64  // 8
	Type       uint8  // 1
	Actor      uint64 // 8
	PayloadLen uint16 // 2
}

type TranscriptService struct {
	SaveDir string
}

func NewTranscriptService(dir string) (*TranscriptService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &TranscriptService{SaveDir: dir}, nil
}

// Save пишет транскрипт в SaveDir и возвращает путь к файлу.
func (s *TranscriptService) Save(t *domain.Transcript) (string, error) {
	filename := fmt.Sprintf("scene_zone%d_%d.scnt", t.Zone, t.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, t); err != nil {
		return "", err
	}
	return path, bw.Flush()
}

func writeBinary(w io.Writer, t *domain.Transcript) error {
	// 1. ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := TranscriptFileHeader{
		Version:    Version1,
		Timestamp:  t.Timestamp,
		Zone:       int32(t.Zone),
		EventCount: int32(len(t.Events)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. События
	for i, ev := range t.Events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if len(payload) > 65535 {
			return fmt.Errorf("event %d payload too long: %d", i, len(payload))
		}

		eh := EventHeader{
			AtMs:       ev.At.Milliseconds(),
			Type:       uint8(ev.Type),
			Actor:      uint64(ev.Actor),
			PayloadLen: uint16(len(payload)),
		}
		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}

	return nil
}
