package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseDistribution_StandardRate(t *testing.T) {
	dist := ReleaseDistribution(1_000_000, 500, false)

	assert.Equal(t, int64(950_000), dist.FreelancerAmount)
	assert.Equal(t, int64(50_000), dist.PlatformFee)
	assert.Equal(t, int64(0), dist.ReferralFee)
	assert.Equal(t, int64(1_000_000), dist.Total())
}

func TestReleaseDistribution_PremiumRate(t *testing.T) {
	dist := ReleaseDistribution(1_000_000, 750, false)

	assert.Equal(t, int64(925_000), dist.FreelancerAmount)
	assert.Equal(t, int64(75_000), dist.PlatformFee)
	assert.Equal(t, int64(1_000_000), dist.Total())
}

func TestReleaseDistribution_WithReferrer(t *testing.T) {
	dist := ReleaseDistribution(1_000_000, 500, true)

	// Реферальная доля вырезается из комиссии, не из выплаты фрилансеру.
	assert.Equal(t, int64(950_000), dist.FreelancerAmount)
	assert.Equal(t, int64(47_500), dist.PlatformFee)
	assert.Equal(t, int64(2_500), dist.ReferralFee)
	assert.Equal(t, int64(1_000_000), dist.Total())
}

func TestReleaseDistribution_RoundsFeeDown(t *testing.T) {
	// 999 * 500 / 10000 = 49.95 -> 49
	dist := ReleaseDistribution(999, 500, false)

	assert.Equal(t, int64(49), dist.PlatformFee)
	assert.Equal(t, int64(950), dist.FreelancerAmount)
	assert.Equal(t, int64(999), dist.Total())
}

func TestReleaseDistribution_TinyFeeNoReferral(t *testing.T) {
	// Комиссия 9 меньше делителя 20: реферер не получает ничего,
	// но сумма всё равно сходится.
	dist := ReleaseDistribution(199, 500, true)

	assert.Equal(t, int64(0), dist.ReferralFee)
	assert.Equal(t, int64(9), dist.PlatformFee)
	assert.Equal(t, int64(190), dist.FreelancerAmount)
	assert.Equal(t, int64(199), dist.Total())
}

func TestRefundDistribution(t *testing.T) {
	dist := RefundDistribution(1_000_000)

	assert.Equal(t, int64(1_000_000), dist.ClientAmount)
	assert.Equal(t, int64(0), dist.FreelancerAmount)
	assert.Equal(t, int64(0), dist.PlatformFee)
	assert.Equal(t, int64(1_000_000), dist.Total())
}

func TestSplitDistribution_Half(t *testing.T) {
	dist := SplitDistribution(1_000_000, 50, 500)

	assert.Equal(t, int64(500_000), dist.ClientAmount)
	assert.Equal(t, int64(475_000), dist.FreelancerAmount)
	assert.Equal(t, int64(25_000), dist.PlatformFee)
	assert.Equal(t, int64(1_000_000), dist.Total())
}

func TestSplitDistribution_FullToClient(t *testing.T) {
	dist := SplitDistribution(1_000_000, 100, 500)

	// Эквивалентно полному возврату: остатка нет, комиссии нет.
	assert.Equal(t, RefundDistribution(1_000_000), dist)
}

func TestSplitDistribution_FullToFreelancer(t *testing.T) {
	dist := SplitDistribution(1_000_000, 0, 500)

	// Эквивалентно одобрению без реферера.
	assert.Equal(t, ReleaseDistribution(1_000_000, 500, false), dist)
}

func TestSplitDistribution_ExactPartition(t *testing.T) {
	// Остатки целочисленного деления не теряются ни при каком проценте.
	for _, deposit := range []int64{1, 3, 99, 101, 999_999, 1_000_000} {
		for pct := int64(0); pct <= 100; pct++ {
			dist := SplitDistribution(deposit, pct, 750)
			assert.Equal(t, deposit, dist.Total(), "deposit=%d pct=%d", deposit, pct)
			assert.GreaterOrEqual(t, dist.ClientAmount, int64(0))
			assert.GreaterOrEqual(t, dist.FreelancerAmount, int64(0))
			assert.GreaterOrEqual(t, dist.PlatformFee, int64(0))
		}
	}
}

func TestDistribution_MaxDeposit(t *testing.T) {
	// Верхняя граница депозита: произведение с максимальной ставкой
	// 10000 bps остаётся в пределах int64.
	const maxDeposit = int64(920_000_000_000_000)

	release := ReleaseDistribution(maxDeposit, 10000, true)
	assert.Equal(t, maxDeposit, release.Total())
	assert.GreaterOrEqual(t, release.PlatformFee, int64(0))

	split := SplitDistribution(maxDeposit, 99, 10000)
	assert.Equal(t, maxDeposit, split.Total())
	assert.GreaterOrEqual(t, split.FreelancerAmount, int64(0))
}

func TestReleaseDistribution_ZeroFee(t *testing.T) {
	dist := ReleaseDistribution(1_000_000, 0, true)

	assert.Equal(t, int64(1_000_000), dist.FreelancerAmount)
	assert.Equal(t, int64(0), dist.PlatformFee)
	assert.Equal(t, int64(0), dist.ReferralFee)
}
