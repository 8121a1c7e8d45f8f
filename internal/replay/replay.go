// Package replay записывает срезы состояния сессии в сжатый zstd поток
// JSON строк и читает их обратно.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/annel0/gungeon-sim/internal/session"
)

// Extension расширение файлов записи
const Extension = ".jsonl.zst"

// Frame один кадр записи
type Frame struct {
	Index    int              `json:"index"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// Recorder пишет кадры в zstd поток
type Recorder struct {
	compressor *zstd.Encoder
	enc        *json.Encoder
	closer     io.Closer
	frames     int
	closed     bool
}

// NewRecorder пишет в w. Close не закрывает w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	compressor, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd энкодера: %w", err)
	}
	return &Recorder{compressor: compressor, enc: json.NewEncoder(compressor)}, nil
}

// Create создает файл <dir>/<sessionID>.jsonl.zst
func Create(dir, sessionID string) (*Recorder, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("не удалось создать каталог записей: %w", err)
	}
	path := filepath.Join(dir, sessionID+Extension)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("не удалось создать файл записи: %w", err)
	}

	rec, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, "", err
	}
	rec.closer = f
	return rec, path, nil
}

// Record добавляет кадр
func (r *Recorder) Record(snap session.Snapshot) error {
	if r.closed {
		return errors.New("запись закрыта")
	}
	if err := r.enc.Encode(Frame{Index: r.frames, Snapshot: snap}); err != nil {
		return fmt.Errorf("ошибка записи кадра %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames количество записанных кадров
func (r *Recorder) Frames() int { return r.frames }

// Close дописывает zstd поток и закрывает файл
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.compressor.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader читает кадры последовательно
type Reader struct {
	decompressor *zstd.Decoder
	scanner      *bufio.Scanner
	closer       io.Closer
}

// NewReader читает из r
func NewReader(r io.Reader) (*Reader, error) {
	decompressor, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания zstd декодера: %w", err)
	}
	scanner := bufio.NewScanner(decompressor)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{decompressor: decompressor, scanner: scanner}, nil
}

// Open открывает файл записи
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть запись: %w", err)
	}
	rd, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// Next возвращает следующий кадр или io.EOF
func (r *Reader) Next() (Frame, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Frame{}, fmt.Errorf("ошибка чтения записи: %w", err)
		}
		return Frame{}, io.EOF
	}

	var f Frame
	if err := json.Unmarshal(r.scanner.Bytes(), &f); err != nil {
		return Frame{}, fmt.Errorf("битый кадр: %w", err)
	}
	return f, nil
}

// ReadAll читает все оставшиеся кадры
func (r *Reader) ReadAll() ([]Frame, error) {
	var frames []Frame
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

// Close освобождает декодер
func (r *Reader) Close() error {
	r.decompressor.Close()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
