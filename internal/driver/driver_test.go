package driver_test

import (
	"context"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hitsim/internal/config"
	"github.com/san-kum/hitsim/internal/driver"
	"github.com/san-kum/hitsim/internal/store"
)

// referenceTable spans scaled wavenumbers 0.5..6, wide enough to cover
// every resolvable shell of an 8^3 box of size 2π. Three energy columns
// stand in for the three experimental stations.
const referenceTable = `# k  E(t1)  E(t2)  E(t3)
0.005  2.0e2  1.5e2  1.0e2
0.010  4.0e2  3.0e2  2.0e2
0.020  6.0e2  4.5e2  3.0e2
0.030  5.0e2  3.5e2  2.5e2
0.040  3.0e2  2.0e2  1.5e2
0.050  2.0e2  1.4e2  1.0e2
0.060  1.0e2  0.7e2  0.5e2
`

var _ = Describe("Runner", func() {
	var (
		cfg     *config.Config
		dataDir string
		outDir  string
	)

	BeforeEach(func() {
		tmp := GinkgoT().TempDir()
		dataDir = filepath.Join(tmp, "runs")
		outDir = filepath.Join(tmp, "figures")

		cbc := filepath.Join(tmp, "ref.txt")
		Expect(os.WriteFile(cbc, []byte(referenceTable), 0644)).To(Succeed())

		cfg = config.DefaultConfig()
		cfg.CBCPath = cbc
		cfg.DataDir = dataDir
		cfg.OutDir = outDir
		cfg.Resolution = 8
		cfg.Modes = 16
		cfg.LengthScale = 2 * math.Pi
		cfg.VelocityScale = 1.0
		cfg.Nu = 1e-3
		cfg.Dt = 0.002
		cfg.Seed = 7
		cfg.Windows = []float64{0.01, 0.02}
		cfg.Checkpoint = true
	})

	It("runs a comparison end to end", func() {
		r := driver.New(cfg)
		runID, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(runID).To(HavePrefix("hit_N8_"))

		st := store.New(dataDir)
		meta, err := st.Load(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Resolution).To(Equal(8))
		Expect(meta.Windows).To(Equal([]float64{0.01, 0.02}))
		Expect(meta.Metrics).To(HaveKey("kinetic_energy"))

		for _, w := range cfg.Windows {
			c, err := st.LoadSpectrum(runID, w)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.K).NotTo(BeEmpty())
		}

		figs, err := filepath.Glob(filepath.Join(outDir, "spectrum_N8_*.png"))
		Expect(err).NotTo(HaveOccurred())
		Expect(figs).To(HaveLen(2))

		chks, err := filepath.Glob(filepath.Join(dataDir, "flow_N8_t*.chk"))
		Expect(err).NotTo(HaveOccurred())
		Expect(chks).To(HaveLen(2))
	})

	It("notifies observers with advancing time", func() {
		r := driver.New(cfg)

		var snaps []driver.Snapshot
		r.AddObserver(func(s driver.Snapshot) { snaps = append(snaps, s) })

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(snaps).NotTo(BeEmpty())

		for i := 1; i < len(snaps); i++ {
			Expect(snaps[i].Time).To(BeNumerically(">", snaps[i-1].Time))
			Expect(snaps[i].Step).To(Equal(snaps[i-1].Step + 1))
		}
		Expect(snaps[0].Energy).To(BeNumerically(">", 0))
	})

	It("decays total kinetic energy across the run", func() {
		r := driver.New(cfg)

		var first, last float64
		r.AddObserver(func(s driver.Snapshot) {
			if first == 0 {
				first = s.Energy
			}
			last = s.Energy
		})

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(BeNumerically("<", first))
	})

	It("resumes from the newest checkpoint", func() {
		_, err := driver.New(cfg).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		cfg.Load = true
		cfg.Windows = []float64{0.01, 0.02, 0.03}
		r := driver.New(cfg)

		var snaps []driver.Snapshot
		r.AddObserver(func(s driver.Snapshot) { snaps = append(snaps, s) })

		runID, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		// Restored at t=0.02 CTU, so only the last window advances.
		Expect(snaps[0].CTU).To(BeNumerically(">", 0.02))

		st := store.New(dataDir)
		_, err = st.LoadSpectrum(runID, 0.03)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stops on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := driver.New(cfg).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("fails without the reference table", func() {
		cfg.CBCPath = filepath.Join(dataDir, "missing.txt")
		_, err := driver.New(cfg).Run(context.Background())
		Expect(err).To(HaveOccurred())
	})

	It("fails to resume when no checkpoint exists", func() {
		cfg.Load = true
		_, err := driver.New(cfg).Run(context.Background())
		Expect(err).To(HaveOccurred())
	})
})
