package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/proxima-be/pxbench/rpc/common"
)

func micros(d time.Duration) int64 {
	return d.Microseconds()
}

// PrintThroughput prints the throughput line of a run
func PrintThroughput(w io.Writer, r Result) {
	if r.Command.IsWrite() {
		fmt.Fprintf(w, "Build Qps: %d\n", r.BuildQPS)
	} else {
		fmt.Fprintf(w, "Search Qps: %f\n", r.SearchQPS)
	}
}

// PrintPerf prints the latency and qps table of a run
func PrintPerf(w io.Writer, r Result) {
	fmt.Fprintln(w, "====================PERFORMANCE======================")
	fmt.Fprintf(w, "Process count  : %d\n", r.Latency.Count)
	fmt.Fprintf(w, "Failed count   : %d\n", r.Failed)
	fmt.Fprintf(w, "Average qps    : %.0f/s\n", r.Throughput())
	fmt.Fprintf(w, "Maximum qps    : %.0f/s\n", r.QPS.Max)
	fmt.Fprintf(w, "Minimum qps    : %.0f/s\n", r.QPS.Min)
	fmt.Fprintf(w, "Average latency: %dus\n", micros(r.Latency.Mean))
	fmt.Fprintf(w, "Maximum latency: %dus\n", micros(r.Latency.Max))
	for _, p := range r.Latency.Percentiles {
		fmt.Fprintf(w, "%-15s: %dus\n", fmt.Sprintf("Percentile @%d", int(p.Quantile*100+0.5)), micros(p.Value))
	}
	for _, code := range sortedCodes(r.Failures) {
		fmt.Fprintf(w, "Failures %-6d: %d\n", int32(code), r.Failures[code])
	}
}

// PrintRecall prints the recall ratio for every cutoff
func PrintRecall(w io.Writer, r Result) {
	for _, rc := range r.Recall {
		fmt.Fprintf(w, "Recall @%d: %g\n", rc.At, rc.Ratio())
	}
}

// WriteCSV writes the summary of r together with the connection settings
func WriteCSV(path string, r Result, param common.ConnectParam) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := writeCSV(file, r, param); err != nil {
		return err
	}
	return file.Close()
}

func writeCSV(out io.Writer, r Result, param common.ConnectParam) error {
	writer := csv.NewWriter(out)

	header := []string{
		"Command", "Records", "Workers", "Processed", "Failed",
		"ElapsedMs", "Throughput", "MinQps", "MaxQps",
		"MeanLatencyUs", "MaxLatencyUs",
	}
	row := []string{
		string(r.Command),
		strconv.Itoa(r.Records),
		strconv.Itoa(r.Workers),
		strconv.FormatInt(r.Processed, 10),
		strconv.FormatInt(r.Failed, 10),
		strconv.FormatInt(r.ElapsedMillis, 10),
		strconv.FormatFloat(r.Throughput(), 'f', 2, 64),
		strconv.FormatFloat(r.QPS.Min, 'f', 0, 64),
		strconv.FormatFloat(r.QPS.Max, 'f', 0, 64),
		strconv.FormatInt(micros(r.Latency.Mean), 10),
		strconv.FormatInt(micros(r.Latency.Max), 10),
	}
	for _, p := range r.Latency.Percentiles {
		header = append(header, fmt.Sprintf("P%dUs", int(p.Quantile*100+0.5)))
		row = append(row, strconv.FormatInt(micros(p.Value), 10))
	}
	for _, rc := range r.Recall {
		header = append(header, fmt.Sprintf("Recall@%d", rc.At))
		row = append(row, strconv.FormatFloat(rc.Ratio(), 'f', 4, 64))
	}
	header = append(header, "Address", "Serializer", "TimeoutMs")
	row = append(row, param.Address(), param.Serializer, strconv.FormatInt(param.Timeout.Milliseconds(), 10))

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
