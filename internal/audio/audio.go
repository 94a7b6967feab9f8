package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hajimehoshi/go-mp3"

	"call-audit-go/internal/types"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load reads a call recording from a local path or an http(s) URL and
// decodes it into a mono clip. WAV is detected by RIFF header, anything
// else is tried as MP3.
func Load(pathOrURL string) (*types.AudioClip, error) {
	var (
		data []byte
		err  error
	)
	lower := strings.ToLower(pathOrURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		data, err = fetch(pathOrURL)
	} else {
		data, err = os.ReadFile(pathOrURL)
	}
	if err != nil {
		return nil, fmt.Errorf("load audio: %w", err)
	}
	return Decode(data)
}

// Decode turns raw recording bytes into a mono clip.
func Decode(data []byte) (*types.AudioClip, error) {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return decodeWAV(data)
	}
	return decodeMP3(data)
}

// fetch downloads a recording with exponential backoff on transient errors.
func fetch(url string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	var lastErr error
	var data []byte
	op := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("download failed: status %d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("empty body")
			return lastErr
		}
		data = body
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		return nil, lastErr
	}
	return data, nil
}

// decodeMP3 decodes MP3 bytes. go-mp3 always emits 16-bit stereo LE.
func decodeMP3(data []byte) (*types.AudioClip, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("mp3 decode: unexpected pcm length %d", len(raw))
	}
	frames := len(raw) / 4
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2 : i*4+4]))
		samples[i] = float64(int(l)+int(r)) / 2.0
	}
	return &types.AudioClip{Samples: samples, SampleRate: dec.SampleRate()}, nil
}

// decodeWAV parses a PCM16 RIFF/WAVE file, walking fmt and data chunks.
func decodeWAV(data []byte) (*types.AudioClip, error) {
	pos := 12
	var numCh, sampleRate, bitsPerSample int
	var pcm []byte
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkLen > len(data) {
			return nil, fmt.Errorf("wav decode: truncated %q chunk", chunkID)
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, fmt.Errorf("wav decode: short fmt chunk")
			}
			audioFormat := int(binary.LittleEndian.Uint16(data[body : body+2]))
			if audioFormat != 1 {
				return nil, fmt.Errorf("wav decode: unsupported format %d, want PCM", audioFormat)
			}
			numCh = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkLen]
		}
		// chunks are word-aligned
		pos = body + chunkLen + chunkLen%2
	}
	if sampleRate == 0 || pcm == nil {
		return nil, fmt.Errorf("wav decode: missing fmt or data chunk")
	}
	if bitsPerSample != 16 || numCh < 1 {
		return nil, fmt.Errorf("wav decode: unsupported layout: %d-bit %d-channel", bitsPerSample, numCh)
	}
	frames := len(pcm) / (2 * numCh)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < numCh; ch++ {
			off := (i*numCh + ch) * 2
			sum += int(int16(binary.LittleEndian.Uint16(pcm[off : off+2])))
		}
		samples[i] = float64(sum) / float64(numCh)
	}
	return &types.AudioClip{Samples: samples, SampleRate: sampleRate}, nil
}
