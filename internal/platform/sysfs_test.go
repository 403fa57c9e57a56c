package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadBatteryPercent_Capacity(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAT0", "capacity"), "87\n")

	got, err := readBatteryPercent(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != 87 {
		t.Errorf("percent = %d, want 87", got)
	}
}

func TestReadBatteryPercent_ChargeRatio(t *testing.T) {
	dir := t.TempDir()
	bat := filepath.Join(dir, "BAT1")
	writeFile(t, filepath.Join(bat, "type"), "Battery\n")
	writeFile(t, filepath.Join(bat, "charge_now"), "2999\n")
	writeFile(t, filepath.Join(bat, "charge_full"), "4000\n")

	got, err := readBatteryPercent(bat)
	if err != nil {
		t.Fatal(err)
	}
	// 2999*100/4000 = 74.975, truncated.
	if got != 74 {
		t.Errorf("percent = %d, want 74", got)
	}
}

func TestReadBatteryPercent_ClampsOverreporting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAT0", "capacity"), "104\n")

	got, err := readBatteryPercent(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("percent = %d, want 100", got)
	}
}

func TestReadBatteryPercent_NoBattery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "AC", "online"), "1\n")

	_, err := readBatteryPercent(dir)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

const trafficTable = `idx iface acct_tag_hex uid_tag_int cnt_set rx_bytes rx_packets tx_bytes tx_packets
2 wlan0 0x0 10045 0 1000 10 200 2
3 wlan0 0x0 10045 1 500 5 100 1
4 wlan0 0x3e800000000 10045 0 1000 10 200 2
5 rmnet0 0x0 10045 0 24 1 6 1
6 wlan0 0x0 10046 0 99999 1 99999 1
`

func TestReadUIDTraffic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats")
	writeFile(t, path, trafficTable)

	got, err := readUIDTraffic(path, 10045)
	if err != nil {
		t.Fatal(err)
	}
	if got.RxBytes != 1524 {
		t.Errorf("RxBytes = %d, want 1524", got.RxBytes)
	}
	if got.TxBytes != 306 {
		t.Errorf("TxBytes = %d, want 306", got.TxBytes)
	}
}

func TestReadUIDTraffic_UnknownUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats")
	writeFile(t, path, trafficTable)

	got, err := readUIDTraffic(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.RxBytes != 0 || got.TxBytes != 0 {
		t.Errorf("got %+v, want zeros", got)
	}
}

func TestReadUIDTraffic_BadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats")
	writeFile(t, path, "a b c\n1 2 3\n")

	if _, err := readUIDTraffic(path, 0); err == nil {
		t.Error("expected error for unexpected header")
	}
}

func TestReadUIDTraffic_Missing(t *testing.T) {
	if _, err := readUIDTraffic(filepath.Join(t.TempDir(), "absent"), 0); err == nil {
		t.Error("expected error for missing table")
	}
}
