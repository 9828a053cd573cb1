package integration

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"sweepbot-go/internal/audit"
	"sweepbot-go/internal/config"
	"sweepbot-go/internal/pipeline"
	"sweepbot-go/internal/wallet"
	"sweepbot-go/internal/xrpl"
)

// Spins up a canned rippled JSON-RPC server and drives one full live cycle
// through the real client, codec, and recorder.
func TestLiveSweepFlow(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	source := xrpl.EncodeAddress(xrpl.AccountIDFromPublicKey(append([]byte{0xED}, pub...)))
	vault := xrpl.EncodeAddress([20]byte{9})

	var submits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		var result string
		switch req.Method {
		case "account_info":
			result = `{"status":"success","account_data":{"Account":"` + source + `","Balance":"110000000","Sequence":42},"validated":true}`
		case "server_info":
			result = `{"status":"success","info":{"validated_ledger":{"seq":91234567},"load_factor":1,"peers":20,"server_state":"full"}}`
		case "fee":
			result = `{"status":"success","drops":{"base_fee":"10","median_fee":"10","open_ledger_fee":"10"},"load_factor":1}`
		case "submit":
			submits++
			result = `{"status":"success","engine_result":"tesSUCCESS","engine_result_code":0,"engine_result_message":"ok","accepted":true,"applied":true}`
		case "tx":
			result = `{"status":"success","validated":true,"meta":{"TransactionResult":"tesSUCCESS"}}`
		default:
			result = `{"status":"error","error":"unknownCmd"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":` + result + `}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.json")
	cred := wallet.Credential{
		Seed:       "sEdTestSeed",
		PublicKey:  "ED" + strings.ToUpper(hex.EncodeToString(pub)),
		PrivateKey: "ED" + strings.ToUpper(hex.EncodeToString(priv.Seed())),
		Address:    source,
	}
	data, err := json.Marshal(cred)
	if err != nil {
		t.Fatalf("marshal credential: %v", err)
	}
	if err := os.WriteFile(sourcePath, data, 0o600); err != nil {
		t.Fatalf("write source wallet: %v", err)
	}
	vaultPath := filepath.Join(dir, "vault.json")
	if err := os.WriteFile(vaultPath, []byte(`{"address":"`+vault+`"}`), 0o600); err != nil {
		t.Fatalf("write vault wallet: %v", err)
	}

	outboxPath := filepath.Join(dir, "outbox.jsonl")
	cfg := config.Default()
	cfg.Mode = config.ModeLive
	cfg.Ledger.RPCURL = srv.URL
	cfg.Wallet.SourcePath = sourcePath
	cfg.Wallet.VaultPath = vaultPath
	cfg.Audit.OutboxPath = outboxPath

	recorder, err := audit.NewJSONLRecorder(outboxPath)
	if err != nil {
		t.Fatalf("NewJSONLRecorder error: %v", err)
	}
	defer recorder.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := xrpl.New(srv.URL, 2*time.Second)
	runner := pipeline.NewRunner(cfg, client, recorder, zerolog.Nop())
	result, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.StandDown {
		t.Fatalf("unexpected stand down")
	}
	if submits != 2 {
		t.Fatalf("expected 2 submitted legs, got %d", submits)
	}
	if result.Report == nil || result.Report.FeeLegError != "" {
		t.Fatalf("expected a clean live report: %+v", result.Report)
	}

	file, err := os.Open(outboxPath)
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("expected a settlement record in the outbox")
	}
	var record audit.SettlementRecord
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Debtor.ID != source || record.Creditor.ID != vault {
		t.Fatalf("unexpected record parties: %+v", record)
	}
	if record.Transfers[0].Drops != 5_000_000 {
		t.Fatalf("principal = %d, want 5000000", record.Transfers[0].Drops)
	}
}
