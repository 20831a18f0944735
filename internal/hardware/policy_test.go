package hardware

import (
	"testing"
)

func TestWorkerLadder(t *testing.T) {
	tests := []struct {
		name string
		cpu  int
		want int
	}{
		{
			name: "Single core",
			cpu:  1,
			want: 1,
		},
		{
			name: "Dual core",
			cpu:  2,
			want: 1,
		},
		{
			name: "Triple core stays at one",
			cpu:  3,
			want: 1,
		},
		{
			name: "Quad core leaves one free",
			cpu:  4,
			want: 3,
		},
		{
			name: "Six cores",
			cpu:  6,
			want: 5,
		},
		{
			name: "Seven cores",
			cpu:  7,
			want: 6,
		},
		{
			name: "Eight cores caps at six",
			cpu:  8,
			want: 6,
		},
		{
			name: "Twelve cores caps at six",
			cpu:  12,
			want: 6,
		},
		{
			name: "Sixteen cores caps at six",
			cpu:  16,
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := computePolicy(tt.cpu, 100, true, false)
			if p.Workers != tt.want {
				t.Errorf("computePolicy(cpu=%d).Workers = %d, want %d", tt.cpu, p.Workers, tt.want)
			}
		})
	}
}

func TestLowBatteryHalvesWorkers(t *testing.T) {
	tests := []struct {
		name    string
		cpu     int
		battery int
		known   bool
		want    int
	}{
		{
			name:    "At threshold halves",
			cpu:     8,
			battery: 20,
			known:   true,
			want:    3,
		},
		{
			name:    "Just above threshold keeps full count",
			cpu:     8,
			battery: 21,
			known:   true,
			want:    6,
		},
		{
			name:    "Unknown battery keeps full count",
			cpu:     8,
			battery: 5,
			known:   false,
			want:    6,
		},
		{
			name:    "Integer floor",
			cpu:     4,
			battery: 10,
			known:   true,
			want:    1,
		},
		{
			name:    "Never below one",
			cpu:     1,
			battery: 5,
			known:   true,
			want:    1,
		},
		{
			name:    "Seven cores on low battery",
			cpu:     7,
			battery: 15,
			known:   true,
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := computePolicy(tt.cpu, tt.battery, tt.known, false)
			if p.Workers != tt.want {
				t.Errorf("Workers = %d, want %d", p.Workers, tt.want)
			}
		})
	}
}

func TestEncodeQuality(t *testing.T) {
	tests := []struct {
		name      string
		battery   int
		known     bool
		requested int
		want      int
	}{
		{
			name:      "Healthy battery passes through",
			battery:   50,
			known:     true,
			requested: 92,
			want:      92,
		},
		{
			name:      "Just above threshold passes through",
			battery:   16,
			known:     true,
			requested: 92,
			want:      92,
		},
		{
			name:      "At threshold drops quality",
			battery:   15,
			known:     true,
			requested: 92,
			want:      86,
		},
		{
			name:      "Below threshold drops quality",
			battery:   10,
			known:     true,
			requested: 92,
			want:      86,
		},
		{
			name:      "Floor holds",
			battery:   10,
			known:     true,
			requested: 88,
			want:      85,
		},
		{
			name:      "Floor applies even to low requests",
			battery:   10,
			known:     true,
			requested: 70,
			want:      85,
		},
		{
			name:      "Unknown battery passes through",
			battery:   5,
			known:     false,
			requested: 92,
			want:      92,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := computePolicy(8, tt.battery, tt.known, false)
			if got := p.EncodeQuality(tt.requested); got != tt.want {
				t.Errorf("EncodeQuality(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}

func TestPolicyCarriesInputs(t *testing.T) {
	p := computePolicy(8, 42, true, true)

	if p.CPUCount != 8 {
		t.Errorf("CPUCount = %d, want 8", p.CPUCount)
	}
	if p.BatteryPercent != 42 || !p.BatteryKnown {
		t.Errorf("battery = %d/%v, want 42/true", p.BatteryPercent, p.BatteryKnown)
	}
	if !p.Accelerated {
		t.Error("Accelerated flag was not carried through")
	}
	if p.PreviewMaxDim != 1024 {
		t.Errorf("PreviewMaxDim = %d, want 1024", p.PreviewMaxDim)
	}
}

func TestComputeSamplesSanely(t *testing.T) {
	p := Compute()

	if p.CPUCount < 1 {
		t.Errorf("CPUCount = %d, want at least 1", p.CPUCount)
	}
	if p.Workers < 1 {
		t.Errorf("Workers = %d, want at least 1", p.Workers)
	}
	if p.BatteryKnown && (p.BatteryPercent < 0 || p.BatteryPercent > 100) {
		t.Errorf("BatteryPercent = %d, want 0..100", p.BatteryPercent)
	}
	if p.PreviewMaxDim != PreviewMaxDim {
		t.Errorf("PreviewMaxDim = %d, want %d", p.PreviewMaxDim, PreviewMaxDim)
	}
}

func TestCPUCount(t *testing.T) {
	if CPUCount() < 1 {
		t.Errorf("CPUCount() = %d, want at least 1", CPUCount())
	}
}
