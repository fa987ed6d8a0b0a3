package cyk

import (
	"github.com/quenbyako/cfpq/grammar"
)

// Terminal это конечная нода. Собственно, терминал: позиция в слове и его
// символ.
type Terminal struct {
	Index int
	Type  grammar.Ident
}

// NonTerminal это нетерминал, который алгоритм cyk вывел для ячейки таблицы,
// вместе с координатами ячеек, из которых он был выведен.
type NonTerminal struct {
	I grammar.Ident

	// ВАЖНО: если вы пытаетесь дернуть кординаты у нетерминала, который
	// находится в диагональной ячейке (где координаты x==y) то координаты
	// будут пустыми. остальные нетерминалы обязаны иметь координаты
	Left   NonTerminalCoord
	Bottom NonTerminalCoord
}

type NonTerminalCoord struct {
	XY
	Index int
}
