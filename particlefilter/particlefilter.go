package particlefilter

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/SiChiTong/ROS-Turtlebot-Navigation/gridmap"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/scanmatch"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamconfig"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/slamutil"
	"github.com/SiChiTong/ROS-Turtlebot-Navigation/transform"
)

// ParticleFilter orchestrates the motion model, scan-matched proposal,
// weighting, map integration and resampling across a fixed-size set of
// particles (spec.md §2, §4).
type ParticleFilter struct {
	cfg     slamconfig.Config
	matcher scanmatch.ScanMatcher

	Particles []*Particle

	motionNoise *mat.SymDense
	sampleRange *mat.SymDense

	rng *slamutil.RNGPool

	normalSqrdSum float64
}

// New constructs a ParticleFilter with cfg.NumParticles copies of seedGrid,
// all starting at pose (spec.md §6 constructor inputs).
func New(cfg slamconfig.Config, matcher scanmatch.ScanMatcher, pose transform.Pose, seedGrid gridmap.GridMap) *ParticleFilter {
	pf := &ParticleFilter{
		cfg:     cfg,
		matcher: matcher,
		rng:     slamutil.NewRNGPool(cfg.Seed),
		motionNoise: mat.NewSymDense(3, []float64{
			cfg.MotionNoiseTheta, 0, 0,
			0, cfg.MotionNoiseX, 0,
			0, 0, cfg.MotionNoiseY,
		}),
		sampleRange: mat.NewSymDense(3, []float64{
			cfg.SampleRangeTheta, 0, 0,
			0, cfg.SampleRangeX, 0,
			0, 0, cfg.SampleRangeY,
		}),
	}

	weight := 1.0 / float64(cfg.NumParticles)
	pf.Particles = make([]*Particle, cfg.NumParticles)
	for i := range pf.Particles {
		pf.Particles[i] = NewParticle(weight, pose, seedGrid.Clone())
	}
	return pf
}

// SLAM runs one filter step: scan match, per-particle proposal sampling and
// map integration, then normalization and conditional resampling (spec.md
// §4.4-§4.5).
func (pf *ParticleFilter) SLAM(scan []float64, u transform.Twist2D, curOdom, prevOdom transform.Pose) error {
	tInit := transform.DeltaOdom(curOdom, prevOdom)
	tICP, matched := pf.matcher.Match(tInit, scan)

	streams := pf.rng.Split(len(pf.Particles))
	errs := make([]error, len(pf.Particles))

	var wg sync.WaitGroup
	for i := range pf.Particles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = pf.updateParticle(pf.Particles[i], streams[i], scan, u, tICP, matched, curOdom, prevOdom)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if err := pf.normalizeWeights(); err != nil {
		return err
	}
	if pf.effectiveParticles() {
		log.Printf("particlefilter: resampling")
		pf.lowVarianceResampling()
	}
	return nil
}

// updateParticle is the per-particle body of the loop in spec.md §4.4,
// embarrassingly parallel across particles as spec.md §5 allows.
func (pf *ParticleFilter) updateParticle(
	p *Particle, rng *rand.Rand,
	scan []float64, u transform.Twist2D,
	tICP transform.Transform2D, matched bool,
	curOdom, prevOdom transform.Pose,
) error {
	if !matched {
		// Fallback: sample new pose from the motion model alone.
		p.PrevPose = p.Pose
		newPose, err := pf.sampleMotionModel(u, p.Pose, rng)
		if err != nil {
			return err
		}
		p.Pose = newPose

		scanLikelihood := p.Grid.LikelihoodFieldModel(scan, transform.FromPose(p.Pose))
		p.Weight *= scanLikelihood
	} else {
		// ICP-refined pose estimate for this particle.
		tX := transform.FromPose(p.Pose).Mul(tICP)

		sampled := pf.sampleMode(tX, rng)

		mu, sigma, eta, err := pf.gaussianProposal(sampled, p, scan, curOdom, prevOdom)
		if err != nil {
			return err
		}

		drawn, err := slamutil.SampleMultivariate(rng, mu, sigma)
		if err != nil {
			return err
		}
		newPose := transform.NewPose(drawn[0], drawn[1], drawn[2])

		p.PrevPose = p.Pose
		p.Pose = newPose
		p.Weight *= eta
	}

	// Map integration happens unconditionally in both branches (spec.md
	// §4.4 step 5).
	p.Grid.IntegrateScan(scan, transform.FromPose(p.Pose))
	return nil
}

// sampleMotionModel implements spec.md §4.2 exactly: noise is drawn once
// (and is zero when all three motion-noise variances are 0), theta is updated
// first, and the translation terms use the *updated* theta.
func (pf *ParticleFilter) sampleMotionModel(u transform.Twist2D, pose transform.Pose, rng *rand.Rand) (transform.Pose, error) {
	w := []float64{0, 0, 0}
	if pf.cfg.MotionNoiseTheta != 0 || pf.cfg.MotionNoiseX != 0 || pf.cfg.MotionNoiseY != 0 {
		var err error
		w, err = slamutil.SampleMultivariate(rng, []float64{0, 0, 0}, pf.motionNoise)
		if err != nil {
			return transform.Pose{}, fmt.Errorf("particlefilter: motion noise: %w", err)
		}
	}

	theta, x, y := pose.Theta, pose.X(), pose.Y()

	if slamutil.AlmostEqual(u.W, 0) {
		theta = slamutil.NormalizeAnglePi(theta + w[0])
		x += u.Vx*math.Cos(theta) + w[1]
		y += u.Vx*math.Sin(theta) + w[2]
	} else {
		theta = slamutil.NormalizeAnglePi(theta + u.W + w[0])
		x += (-u.Vx/u.W)*math.Sin(theta) + (u.Vx/u.W)*math.Sin(theta+u.W) + w[1]
		y += (u.Vx/u.W)*math.Cos(theta) - (u.Vx/u.W)*math.Cos(theta+u.W) + w[2]
	}

	return transform.NewPose(theta, x, y), nil
}

// poseLikelihoodOdom scores a candidate pose transition against the
// odometry-measured transition using the rotation-translation-rotation
// decomposition (spec.md §4.3, Thrun/Burgard/Fox §5.4).
func (pf *ParticleFilter) poseLikelihoodOdom(curPose, prevPose, curOdom, prevOdom transform.Pose) float64 {
	rot1 := math.Atan2(curOdom.Y()-prevOdom.Y(), curOdom.X()-prevOdom.X()) - prevOdom.Theta
	trans := math.Hypot(curOdom.X()-prevOdom.X(), curOdom.Y()-prevOdom.Y())
	rot2 := slamutil.NormalizeAnglePi(
		slamutil.NormalizeAnglePi(curOdom.Theta) - slamutil.NormalizeAnglePi(prevOdom.Theta) - rot1,
	)

	rot1Hat := math.Atan2(curPose.Y()-prevPose.Y(), curPose.X()-prevPose.X()) - prevPose.Theta
	transHat := math.Hypot(curPose.X()-prevPose.X(), curPose.Y()-prevPose.Y())
	rot2Hat := slamutil.NormalizeAnglePi(
		slamutil.NormalizeAnglePi(curPose.Theta) - slamutil.NormalizeAnglePi(prevPose.Theta) - rot1Hat,
	)

	var1 := pf.cfg.Srr*rot1Hat*rot1Hat + pf.cfg.Srt*transHat*transHat
	var2 := pf.cfg.Str*transHat*transHat + pf.cfg.Stt*(rot1Hat*rot1Hat+rot2Hat*rot2Hat)
	var3 := pf.cfg.Srr*rot2Hat*rot2Hat + pf.cfg.Srt*transHat*transHat

	p1 := slamutil.PDFNormal(slamutil.NormalizeAnglePi(slamutil.NormalizeAnglePi(rot1)-slamutil.NormalizeAnglePi(rot1Hat)), var1)
	p2 := slamutil.PDFNormal(trans-transHat, var2)
	p3 := slamutil.PDFNormal(slamutil.NormalizeAnglePi(slamutil.NormalizeAnglePi(rot2)-slamutil.NormalizeAnglePi(rot2Hat)), var3)

	return p1 * p2 * p3
}

// sampleMode draws K candidate poses from N(T, sampleRange) (spec.md §4.4
// step 4b).
func (pf *ParticleFilter) sampleMode(t transform.Transform2D, rng *rand.Rand) []transform.Pose {
	theta, x, y := t.Displacement()
	mu := []float64{theta, x, y}

	samples := make([]transform.Pose, pf.cfg.K)
	for i := 0; i < pf.cfg.K; i++ {
		s, err := slamutil.SampleMultivariate(rng, mu, pf.sampleRange)
		if err != nil {
			// sampleRange is a fixed, caller-constructed diagonal SPD
			// matrix; a failure here is a configuration bug, not a
			// per-step numerical event.
			panic(fmt.Sprintf("particlefilter: sample-range covariance is not SPD: %v", err))
		}
		samples[i] = transform.NewPose(s[0], s[1], s[2])
	}
	return samples
}

// gaussianProposal computes the scan-matched Gaussian proposal's mean,
// covariance, and normalization constant eta over the K sampled poses
// (spec.md §4.4 step 4c-4f).
func (pf *ParticleFilter) gaussianProposal(
	sampled []transform.Pose, p *Particle, scan []float64, curOdom, prevOdom transform.Pose,
) ([]float64, *mat.SymDense, float64, error) {
	k := len(sampled)
	likelihoods := make([]float64, k)

	muTheta, muX, muY := 0.0, 0.0, 0.0
	eta := 0.0

	for i, xj := range sampled {
		pScan := clampf(p.Grid.LikelihoodFieldModel(scan, transform.FromPose(xj)), pf.cfg.ScanLikelihoodMin, pf.cfg.ScanLikelihoodMax)
		pPose := clampf(pf.poseLikelihoodOdom(xj, p.PrevPose, curOdom, prevOdom), pf.cfg.PoseLikelihoodMin, pf.cfg.PoseLikelihoodMax)

		pj := pScan * pPose
		likelihoods[i] = pj

		muTheta += xj.Theta * pj
		muX += xj.X() * pj
		muY += xj.Y() * pj
		eta += pj
	}

	if slamutil.AlmostEqual(eta, 0) {
		return nil, nil, 0, fmt.Errorf("particlefilter: eta is 0 (numerical collapse in proposal)")
	}

	muTheta /= eta
	muX /= eta
	muY /= eta
	muTheta = slamutil.NormalizeAnglePi(muTheta)
	mu := []float64{muTheta, muX, muY}

	var s00, s01, s02, s11, s12, s22 float64
	for i, xj := range sampled {
		dTheta := xj.Theta - muTheta
		dX := xj.X() - muX
		dY := xj.Y() - muY
		pj := likelihoods[i]

		s00 += dTheta * dTheta * pj
		s01 += dTheta * dX * pj
		s02 += dTheta * dY * pj
		s11 += dX * dX * pj
		s12 += dX * dY * pj
		s22 += dY * dY * pj
	}

	sigma := mat.NewSymDense(3, []float64{
		s00 / eta, s01 / eta, s02 / eta,
		s01 / eta, s11 / eta, s12 / eta,
		s02 / eta, s12 / eta, s22 / eta,
	})

	return mu, sigma, eta, nil
}

// normalizeWeights divides every weight by the sum, and accumulates the sum
// of squared normalized weights for effectiveParticles (spec.md §4.5).
func (pf *ParticleFilter) normalizeWeights() error {
	sum := 0.0
	for _, p := range pf.Particles {
		sum += p.Weight
	}
	if slamutil.AlmostEqual(sum, 0) {
		return fmt.Errorf("particlefilter: weight sum is 0, cannot normalize")
	}

	pf.normalSqrdSum = 0.0
	for _, p := range pf.Particles {
		p.Weight /= sum
		pf.normalSqrdSum += p.Weight * p.Weight
	}
	return nil
}

// effectiveParticles reports whether N_eff = 1/sum(w_i^2) has collapsed
// below N/2 (spec.md §4.5).
func (pf *ParticleFilter) effectiveParticles() bool {
	nEff := int(1.0 / pf.normalSqrdSum)
	return nEff < len(pf.Particles)/2
}

// lowVarianceResampling is the classic systematic resampling scheme, using
// the deliberate N-1 partition divisor spec.md §4.5/§9 calls out (not the
// textbook N): it departs from the reference on purpose and is preserved.
func (pf *ParticleFilter) lowVarianceResampling() {
	n := len(pf.Particles)
	if n <= 1 {
		// N=1 degenerates the N-1 divisor to a division by zero; spec.md §9
		// marks this an untested, degenerate case, so just keep the single
		// particle rather than crash.
		return
	}

	resampled := make([]*Particle, 0, n)

	r := pf.rng.NormFloat64() / float64(n)
	c := pf.Particles[0].Weight

	i := 0
	for m := 0; m < n; m++ {
		u := r + float64(m)*(1.0/float64(n-1))
		for u > c {
			i++
			if i > n-1 {
				i = n - 1
				break
			}
			c += pf.Particles[i].Weight
		}
		resampled = append(resampled, pf.Particles[i].Clone())
	}

	pf.Particles = resampled
}

// GetRobotState returns the highest-weight particle's pose as a rigid
// transform (spec.md §4.6).
func (pf *ParticleFilter) GetRobotState() transform.Transform2D {
	best := pf.bestParticle()
	return transform.FromPose(best.Pose)
}

// NewMap returns the highest-weight particle's occupancy grid (spec.md
// §4.6).
func (pf *ParticleFilter) NewMap() []int8 {
	return pf.bestParticle().Grid.Occupancy()
}

func (pf *ParticleFilter) bestParticle() *Particle {
	best := pf.Particles[0]
	for _, p := range pf.Particles[1:] {
		if p.Weight > best.Weight {
			best = p
		}
	}
	return best
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
