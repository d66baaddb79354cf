package book

import "persona_chess/internal/domain/game"

func mv(from, to string) game.MoveDescriptor {
	return game.MoveDescriptor{From: from, To: to}
}

// Positions with White to move.
var whiteEntries = []Entry{
	// start
	{Key: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("e2", "e4"), mv("d2", "d4"), mv("c2", "c4"), mv("g1", "f3")}},
	// 1.e4 e5
	{Key: "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("g1", "f3")}},
	// 1.e4 e5 2.Nf3 Nc6
	{Key: "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq", Moves: []game.MoveDescriptor{mv("f1", "c4"), mv("f1", "b5"), mv("d2", "d4")}},
	// 1.e4 c5
	{Key: "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("g1", "f3"), mv("b1", "c3")}},
	// 1.e4 c5 2.Nf3 d6
	{Key: "rnbqkbnr/pp2pppp/3p4/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq", Moves: []game.MoveDescriptor{mv("d2", "d4")}},
	// 1.e4 c5 2.Nf3 d6 3.d4 cxd4
	{Key: "rnbqkbnr/pp2pppp/3p4/8/3pP3/5N2/PPP2PPP/RNBQKB1R w KQkq", Moves: []game.MoveDescriptor{mv("f3", "d4")}},
	// 1.e4 e6
	{Key: "rnbqkbnr/pppp1ppp/4p3/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("d2", "d4")}},
	// 1.e4 c6
	{Key: "rnbqkbnr/pp1ppppp/2p5/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("d2", "d4")}},
	// 1.e4 d5
	{Key: "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("e4", "d5")}},
	// 1.d4 d5
	{Key: "rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPP1PPPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("c2", "c4")}},
	// 1.d4 Nf6
	{Key: "rnbqkb1r/pppppppp/5n2/8/3P4/8/PPP1PPPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("c2", "c4"), mv("g1", "f3")}},
	// 1.c4 e5
	{Key: "rnbqkbnr/pppp1ppp/8/4p3/2P5/8/PP1PPPPP/RNBQKBNR w KQkq", Moves: []game.MoveDescriptor{mv("b1", "c3"), mv("g2", "g3")}},
	// 1.Nf3 d5
	{Key: "rnbqkbnr/ppp1pppp/8/3p4/8/5N2/PPPPPPPP/RNBQKB1R w KQkq", Moves: []game.MoveDescriptor{mv("d2", "d4"), mv("g2", "g3"), mv("c2", "c4")}},
}

// Positions with Black to move.
var blackEntries = []Entry{
	// 1.e4
	{Key: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("c7", "c5")}},
	// 1.d4
	{Key: "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("g8", "f6"), mv("d7", "d5")}},
	// 1.c4
	{Key: "rnbqkbnr/pppppppp/8/8/2P5/8/PP1PPPPP/RNBQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("e7", "e5"), mv("g8", "f6")}},
	// 1.Nf3
	{Key: "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq", Moves: []game.MoveDescriptor{mv("d7", "d5"), mv("g8", "f6")}},
	// 1.e4 c5 2.Nf3
	{Key: "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq", Moves: []game.MoveDescriptor{mv("d7", "d6"), mv("b8", "c6"), mv("e7", "e6")}},
	// 1.e4 c5 2.Nc3
	{Key: "rnbqkbnr/pp1ppppp/8/2p5/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("b8", "c6")}},
	// 1.e4 c5 2.Nf3 d6 3.d4
	{Key: "rnbqkbnr/pp2pppp/3p4/2p5/3PP3/5N2/PPP2PPP/RNBQKB1R b KQkq", Moves: []game.MoveDescriptor{mv("c5", "d4")}},
	// 1.d4 d5 2.c4
	{Key: "rnbqkbnr/ppp1pppp/8/3p4/2PP4/8/PP2PPPP/RNBQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("e7", "e6"), mv("c7", "c6"), mv("d5", "c4")}},
	// 1.d4 d5 2.Nf3
	{Key: "rnbqkbnr/ppp1pppp/8/3p4/3P4/5N2/PPP1PPPP/RNBQKB1R b KQkq", Moves: []game.MoveDescriptor{mv("g8", "f6")}},
	// 1.d4 Nf6 2.c4
	{Key: "rnbqkb1r/pppppppp/5n2/8/2PP4/8/PP2PPPP/RNBQKBNR b KQkq", Moves: []game.MoveDescriptor{mv("e7", "e6"), mv("g7", "g6")}},
}
