package service

// Комиссия считается в базисных пунктах (1 bps = 0.01%) с округлением вниз.
// Доля реферера — фиксированная часть комиссии площадки (1/20), не депозита.
// Промежуточное произведение deposit*bps обязано помещаться в int64, поэтому
// депозит ограничен 2^63/10000 ≈ 9.2e14 условных единиц.
const (
	basisPointsDenominator = 10000
	referralFeeDivisor     = 20
)

// Distribution — точное разбиение депозита по получателям.
// Сумма всех полей всегда равна исходному депозиту: остатки от целочисленного
// деления остаются в доле фрилансера (или клиента при полном возврате).
type Distribution struct {
	ClientAmount     int64
	FreelancerAmount int64
	PlatformFee      int64
	ReferralFee      int64
}

// Total возвращает сумму всех долей.
func (d Distribution) Total() int64 {
	return d.ClientAmount + d.FreelancerAmount + d.PlatformFee + d.ReferralFee
}

// ReleaseDistribution считает выплаты при одобрении работы: комиссия
// площадке, остальное фрилансеру. При привязанном реферере его доля
// вырезается из комиссии площадки.
func ReleaseDistribution(deposit, feeBps int64, hasReferrer bool) Distribution {
	fee := deposit * feeBps / basisPointsDenominator

	var referral int64
	if hasReferrer {
		referral = fee / referralFeeDivisor
	}

	return Distribution{
		FreelancerAmount: deposit - fee,
		PlatformFee:      fee - referral,
		ReferralFee:      referral,
	}
}

// RefundDistribution — полный возврат депозита клиенту, без комиссии.
func RefundDistribution(deposit int64) Distribution {
	return Distribution{ClientAmount: deposit}
}

// SplitDistribution делит депозит по проценту клиента (0..100).
// Комиссия берётся только из остатка фрилансера; при pct=100 выплаты
// совпадают с полным возвратом, при pct=0 — с выплатой фрилансеру.
func SplitDistribution(deposit, clientPct, feeBps int64) Distribution {
	clientAmount := deposit * clientPct / 100
	remaining := deposit - clientAmount
	fee := remaining * feeBps / basisPointsDenominator

	return Distribution{
		ClientAmount:     clientAmount,
		FreelancerAmount: remaining - fee,
		PlatformFee:      fee,
	}
}
