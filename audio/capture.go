package audio

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
)

// Capture захват моно аудио с микрофона через miniaudio.
// Отдаёт PCM16 семплы блоками в буферизованный канал
type Capture struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	sampleRate int
	dataChan   chan []int16
	mu         sync.Mutex
	running    bool
}

// NewCapture создаёт захват с указанной частотой дискретизации
func NewCapture(sampleRate int) (*Capture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	return &Capture{
		ctx:        ctx,
		sampleRate: sampleRate,
		// Большой буфер чтобы не терять данные при медленном потребителе
		dataChan: make(chan []int16, 1000),
	}, nil
}

// SampleRate возвращает частоту захвата
func (c *Capture) SampleRate() int {
	return c.sampleRate
}

// Start начинает захват с устройства по умолчанию
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("already running")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(c.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onRecvFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		sampleCount := int(framecount)
		if len(pInputSamples) != sampleCount*2 {
			return
		}

		samples := make([]int16, sampleCount)
		for i := 0; i < sampleCount; i++ {
			samples[i] = int16(binary.LittleEndian.Uint16(pInputSamples[i*2:]))
		}

		// Блокируемся если буфер полон - данные важнее задержки
		c.dataChan <- samples
	}

	device, err := malgo.InitDevice(c.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecvFrames,
	})
	if err != nil {
		return fmt.Errorf("failed to init capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	c.device = device
	c.running = true
	log.Printf("Microphone capture started: %d Hz mono", c.sampleRate)
	return nil
}

// Stop останавливает захват
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	c.running = false
	log.Println("Microphone capture stopped")
}

// Data возвращает канал с блоками захваченных семплов.
// Канал закрывается в Close
func (c *Capture) Data() <-chan []int16 {
	return c.dataChan
}

// Close освобождает ресурсы и закрывает канал данных.
// Устройство останавливается до закрытия канала, поэтому callback
// больше не пишет в него
func (c *Capture) Close() {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx != nil {
		c.ctx.Uninit()
		c.ctx.Free()
		c.ctx = nil
		close(c.dataChan)
	}
}
