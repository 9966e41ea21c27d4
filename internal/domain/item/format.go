package item

import (
	"fmt"
	"math"
	"strings"
)

// FormatBonus renders one stat delta for the HUD and log.
func FormatBonus(b Bonus) string {
	sign := "+"
	if b.Value < 0 {
		sign = "-"
	}
	switch b.Key {
	case StatAttackCooldown, StatRollDuration:
		return fmt.Sprintf("%s %s%.2fs", b.Key.Label(), sign, math.Abs(b.Value))
	case StatCritChance, StatLifeSteal, StatDefense, StatSkillHaste:
		return fmt.Sprintf("%s %s%.1f%%", b.Key.Label(), sign, math.Abs(b.Value)*100)
	case StatCritDamage:
		return fmt.Sprintf("%s +%.0f%%", b.Key.Label(), b.Value*100)
	default:
		return fmt.Sprintf("%s %s%d", b.Key.Label(), sign, int(math.Round(math.Abs(b.Value))))
	}
}

func powerDetail(p Power) string {
	switch p.Key {
	case PowerChain:
		return fmt.Sprintf("%d bounces", p.Bounces)
	case PowerNova, PowerMeteor:
		return fmt.Sprintf("r%d", p.Radius)
	case PowerExecution:
		return fmt.Sprintf("<%.0f%%", p.Threshold*100)
	case PowerShadowShot:
		return fmt.Sprintf("x%d", p.Count)
	case PowerBloodRush:
		return fmt.Sprintf("heal %d", p.Heal)
	case PowerArcaneRing:
		return fmt.Sprintf("%d bolts", p.Bolts)
	case PowerBarrier:
		return fmt.Sprintf("shield %d", p.Shield)
	case PowerFrostGuard:
		return fmt.Sprintf("slow %.0f%%", (1-p.Slow)*100)
	case PowerTimeWarp:
		return fmt.Sprintf("refund %.0f%%", p.SkillRefund*100)
	case PowerEcho:
		return fmt.Sprintf("+%.0f%%", p.Power*100)
	case PowerLuckyStar:
		return fmt.Sprintf("+%dg/+%dxp", p.Gold, p.XP)
	}
	return ""
}

// FormatPower renders a power as "Name(trigger/chance%/CDx.xs/detail)".
func FormatPower(p Power) string {
	return fmt.Sprintf("%s(%s/%.0f%%/CD%.1fs/%s)", p.Name, p.Trigger, p.Chance*100, p.Cooldown, powerDetail(p))
}

// Describe renders the item's name, rarity, bonuses and powers on one line.
func (it *Item) Describe() string {
	if it == nil {
		return "-"
	}
	parts := []string{fmt.Sprintf("[%s] %s", it.Rarity.Def().Name, it.Name)}
	for _, b := range it.Bonuses.Entries() {
		parts = append(parts, FormatBonus(b))
	}
	for _, p := range it.Powers {
		parts = append(parts, FormatPower(p))
	}
	return strings.Join(parts, " ")
}
