package experiment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

// fastBase is a coarse grid so specs run in milliseconds.
func fastBase() config.Config {
	cfg := config.Default()
	cfg.Grid.Dx = 0.2
	cfg.Grid.Dt = 0.005
	return cfg
}

var _ = Describe("Presets", func() {
	It("knows all five study scenarios", func() {
		Expect(experiment.Names()).To(HaveLen(5))
		for _, name := range experiment.Names() {
			scn, ok := experiment.Get(name)
			Expect(ok).To(BeTrue(), name)
			Expect(scn.Name).To(Equal(name))
		}
	})

	It("rejects unknown names", func() {
		_, ok := experiment.Get("sauna")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Single-room scenarios", func() {
	It("places the radiator under the window with active cells", func() {
		scn, _ := experiment.Get("under-window")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Solver().ActiveCells()).To(BeNumerically(">", 0))

		left, right := e.Solver().Windows()
		Expect(left).To(BeTrue())
		Expect(right).To(BeFalse())
	})

	It("bills the full energy to the occupant", func() {
		scn, _ := experiment.Get("under-window")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())

		res := e.Run(300)
		Expect(res.Steps).To(Equal(300))
		Expect(res.CostKWh).To(Equal(res.EnergyKWh))
		Expect(res.EnergyKWh).To(BeNumerically(">", 0))
		Expect(res.Series).NotTo(BeEmpty())
		Expect(res.Field).NotTo(BeNil())
	})
})

var _ = Describe("Building scenarios", func() {
	It("stretches the domain to a 12m strip", func() {
		scn, _ := experiment.Get("cooperation")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Solver().Field().Nx()).To(Equal(60))
	})

	It("splits the cooperation bill three ways", func() {
		scn, _ := experiment.Get("cooperation")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())

		res := e.Run(200)
		Expect(res.CostKWh).To(BeNumerically("~", res.EnergyKWh/3, 1e-12))
	})

	It("charges a parasite nothing while neighbors heat", func() {
		scn, _ := experiment.Get("parasite")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())

		res := e.Run(200)
		Expect(res.EnergyKWh).To(BeNumerically(">", 0))
		Expect(res.CostKWh).To(BeZero())
	})

	It("keeps a heated middle apartment warmer than the strip mean", func() {
		scn, _ := experiment.Get("isolation")
		e, err := experiment.New(fastBase(), scn)
		Expect(err).NotTo(HaveOccurred())

		res := e.Run(2000)
		Expect(res.RoomMeanC).To(BeNumerically(">", res.MeanTempC))
	})
})

var _ = Describe("Invalid scenarios", func() {
	It("propagates solver construction errors", func() {
		cfg := fastBase()
		cfg.Grid.Dx = -1
		_, err := experiment.New(cfg, experiment.Scenario{Name: "broken"})
		Expect(err).To(HaveOccurred())
	})
})
