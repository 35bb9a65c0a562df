package scenes

import (
	"scene-server/internal/domain"
	"scene-server/internal/script"
)

// Вариант солдата выбирается по облику павшего.
var trooperVariants = map[uint32]domain.SpellID{
	33978: 83150, // male 01
	33980: 83163, // male 02
	33979: 83164, // male 03
	33981: 83165, // male 04
	33982: 83152, // female 01
	33983: 83166, // female 02
	33984: 83167, // female 03
	33985: 83168, // female 04
}

const defaultTrooperVariant domain.SpellID = 83150

// TrooperVariant возвращает заклинание превращения для облика (по умолчанию male 01).
func TrooperVariant(displayID uint32) domain.SpellID {
	if spell, ok := trooperVariants[displayID]; ok {
		return spell
	}
	return defaultTrooperVariant
}

// TrooperMasterScript снимает притворную смерть и превращает заклинателя в солдата.
func TrooperMasterScript(caster *domain.Entity, svc script.Services) {
	svc.Effects.Remove(caster.Handle, SpellFeigned)
	svc.Effects.Cast(caster.Handle, TrooperVariant(caster.DisplayID), true)
}
