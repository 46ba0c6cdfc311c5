package wiring

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"safenlt/internal/launch"
)

var (
	suiteTmp  string
	mockVault string
)

var _ = ginkgo.BeforeSuite(func() {
	var err error
	suiteTmp, err = os.MkdirTemp("", "safe-nlt-wiring-*")
	gomega.Expect(err).To(gomega.Succeed())

	mockVault = filepath.Join(suiteTmp, "mock-vault")
	cmd := exec.Command("go", "build", "-o", mockVault, "./cmd/mock-vault")
	cmd.Dir = filepath.Join("..", "..")
	out, err := cmd.CombinedOutput()
	gomega.Expect(err).To(gomega.Succeed(), "build mock-vault: %s", out)
})

var _ = ginkgo.AfterSuite(func() {
	if suiteTmp != "" {
		_ = os.RemoveAll(suiteTmp)
	}
})

var _ = ginkgo.Describe("Run", func() {
	ginkgo.It("launches a network and joins a vault through the genesis contact", func() {
		vaultsDir := filepath.Join(ginkgo.GinkgoT().TempDir(), "vaults")

		runner := &launch.Runner{Out: io.Discard}
		cfg := launch.Config{
			VaultPath: mockVault,
			VaultsDir: vaultsDir,
			NumVaults: 2,
			Interval:  time.Second,
		}

		contactInfo, indexes, err := Run(runner, cfg, 1)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(contactInfo).To(gomega.Equal("[127.0.0.1:12000]"))
		gomega.Expect(indexes).To(gomega.Equal([]int{3}))

		// Vaults are released, not waited on; their footprint lands shortly
		// after the flow returns. The invocation record is written last.
		for _, dir := range []string{"safe-vault-genesis", "safe-vault-2", "safe-vault-3"} {
			invPath := filepath.Join(vaultsDir, dir, "invocation.txt")
			gomega.Eventually(func() error {
				_, err := os.Stat(invPath)
				return err
			}, "5s", "50ms").Should(gomega.Succeed(), "%s should record its invocation", dir)
		}

		genesisInv, err := os.ReadFile(filepath.Join(vaultsDir, "safe-vault-genesis", "invocation.txt"))
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(string(genesisInv)).To(gomega.ContainSubstring("--first"))

		joinedInv, err := os.ReadFile(filepath.Join(vaultsDir, "safe-vault-3", "invocation.txt"))
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(string(joinedInv)).To(gomega.ContainSubstring("--hard-coded-contacts\n[127.0.0.1:12000]"))
		gomega.Expect(string(joinedInv)).NotTo(gomega.ContainSubstring("--first"))
	})
})
