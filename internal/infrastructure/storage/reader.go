package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"scene-server/internal/domain"
)

func (s *TranscriptService) Load(path string) (*domain.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*domain.Transcript, error) {
	// 1. Читаем заголовок целиком
	var header TranscriptFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.EventCount < 0 {
		return nil, fmt.Errorf("invalid event count %d", header.EventCount)
	}

	t := &domain.Transcript{
		Zone:      int(header.Zone),
		Timestamp: header.Timestamp,
		Events:    make([]domain.SceneEvent, header.EventCount),
	}

	// 2. Читаем события
	for i := range t.Events {
		var eh EventHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("event %d header: %w", i, err)
		}

		payload := make([]byte, eh.PayloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("event %d body: %w", i, err)
		}

		var ev domain.SceneEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		// заголовок - источник истины для полей индекса
		ev.At = time.Duration(eh.AtMs) * time.Millisecond
		ev.Type = domain.EventType(eh.Type)
		ev.Actor = domain.Handle(eh.Actor)
		t.Events[i] = ev
	}

	return t, nil
}
