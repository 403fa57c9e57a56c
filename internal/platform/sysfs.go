package platform

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// readBatteryPercent reads the charge level of a power supply. path may be a
// single supply directory or a class directory holding BAT* entries.
// capacity is preferred; charge_now/charge_full and energy_now/energy_full
// are used when the driver does not expose it.
func readBatteryPercent(path string) (int, error) {
	dir, err := findBatteryDir(path)
	if err != nil {
		return 0, err
	}

	if v, err := readUintFile(filepath.Join(dir, "capacity")); err == nil {
		return clampPercent(int64(v)), nil
	}

	for _, pair := range [][2]string{
		{"charge_now", "charge_full"},
		{"energy_now", "energy_full"},
	} {
		level, err := readUintFile(filepath.Join(dir, pair[0]))
		if err != nil {
			continue
		}
		scale, err := readUintFile(filepath.Join(dir, pair[1]))
		if err != nil || scale == 0 {
			continue
		}
		return clampPercent(int64(float64(level) * 100 / float64(scale))), nil
	}

	return 0, fmt.Errorf("no battery level in %s", dir)
}

// findBatteryDir resolves path to a directory that holds battery attributes.
func findBatteryDir(path string) (string, error) {
	if _, err := os.Stat(filepath.Join(path, "type")); err == nil {
		return path, nil
	}
	if _, err := os.Stat(filepath.Join(path, "capacity")); err == nil {
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "BAT*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no battery under %s: %w", path, ErrUnsupported)
	}
	sort.Strings(matches)
	return matches[0], nil
}

func clampPercent(v int64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func readUintFile(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
}

// readUIDTraffic sums rx_bytes and tx_bytes of the untagged rows belonging
// to uid in an xt_qtaguid style stats table. Columns are located through the
// header line so kernels that add columns still parse.
func readUIDTraffic(path string, uid int) (models.NetworkCounters, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.NetworkCounters{}, err
	}
	defer f.Close()

	var counters models.NetworkCounters
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return counters, fmt.Errorf("%s: empty table", path)
	}

	cols := make(map[string]int)
	for i, name := range strings.Fields(scanner.Text()) {
		cols[name] = i
	}
	tagCol, okTag := cols["acct_tag_hex"]
	uidCol, okUID := cols["uid_tag_int"]
	rxCol, okRx := cols["rx_bytes"]
	txCol, okTx := cols["tx_bytes"]
	if !okTag || !okUID || !okRx || !okTx {
		return counters, fmt.Errorf("%s: unexpected header", path)
	}

	want := strconv.Itoa(uid)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) <= maxInt(tagCol, uidCol, rxCol, txCol) {
			continue
		}
		// Tagged rows repeat bytes already counted in the 0x0 row.
		if fields[uidCol] != want || fields[tagCol] != "0x0" {
			continue
		}
		rx, err := strconv.ParseUint(fields[rxCol], 10, 64)
		if err != nil {
			continue
		}
		tx, err := strconv.ParseUint(fields[txCol], 10, 64)
		if err != nil {
			continue
		}
		counters.RxBytes += rx
		counters.TxBytes += tx
	}

	return counters, scanner.Err()
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
