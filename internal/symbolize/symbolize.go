// Package symbolize implements the engine's default symbolization oracle:
// an ELF/DWARF-backed lookup from instruction pointer to demangled
// function name, source file, and line number, following the same
// DWARF-subprogram-table-first, ELF-symbol-table-fallback structure as
// the aclements-go-perf symbolizer this package is grounded on.
package symbolize

import (
	"debug/dwarf"
	"debug/elf"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ianlancetaylor/demangle"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Symbol is the result of a successful lookup. Zero values mean "unknown",
// per the oracle contract: File=="" and Line==0 mean no line info, Function=="" means
// no function name was recoverable.
type Symbol struct {
	Function string
	File     string
	Line     int
	Column   int
}

// Symbolizer resolves an instruction pointer to a Symbol. It must never
// fail the calling report pass: callers that cannot resolve an address get
// a zero Symbol and render the placeholder strings from §7.
type Symbolizer interface {
	Symbolize(ip types.CodeLoc) (Symbol, error)
}

type funcEntry struct {
	lowPC, highPC uint64
	name          string
}

type lineEntry struct {
	pc           uint64
	file         string
	line, column int
}

// ELFSymbolizer opens a single binary's debug info on first use and
// caches the parsed function/line tables for the remainder of the run.
type ELFSymbolizer struct {
	path string

	once    sync.Once
	loadErr error

	funcs     []funcEntry // sorted by lowPC
	lines     []lineEntry // sorted by pc
	elfSyms   []funcEntry // ELF symtab fallback, sorted by lowPC
}

// NewELFSymbolizer returns a symbolizer backed by the ELF/DWARF info in
// the binary at path. Parsing is deferred to first use.
func NewELFSymbolizer(path string) *ELFSymbolizer {
	return &ELFSymbolizer{path: path}
}

func (s *ELFSymbolizer) load() {
	f, err := elf.Open(s.path)
	if err != nil {
		s.loadErr = fmt.Errorf("symbolize: open %s: %w", s.path, err)
		return
	}
	defer f.Close()

	s.loadElfSymtab(f)

	d, err := f.DWARF()
	if err != nil {
		// No DWARF info: ELF symtab fallback is all we have. Not fatal.
		return
	}
	s.loadDwarfFuncTable(d)
	s.loadDwarfLineTable(d)
}

func (s *ELFSymbolizer) loadElfSymtab(f *elf.File) {
	syms, err := f.Symbols()
	if err != nil {
		return
	}
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Size == 0 {
			continue
		}
		s.elfSyms = append(s.elfSyms, funcEntry{
			lowPC:  sym.Value,
			highPC: sym.Value + sym.Size,
			name:   sym.Name,
		})
	}
	sort.Slice(s.elfSyms, func(i, j int) bool { return s.elfSyms[i].lowPC < s.elfSyms[j].lowPC })
}

func (s *ELFSymbolizer) loadDwarfFuncTable(d *dwarf.Data) {
	r := d.Reader()
	for {
		entry, err := r.Next()
		if err != nil || entry == nil {
			break
		}
		if entry.Tag != dwarf.TagSubprogram {
			continue
		}
		name, _ := entry.Val(dwarf.AttrName).(string)
		low, lowOK := entry.Val(dwarf.AttrLowpc).(uint64)
		var high uint64
		var highOK bool
		switch v := entry.Val(dwarf.AttrHighpc).(type) {
		case uint64:
			high, highOK = v, true
		case int64:
			// Constant-class AttrHighpc is an offset from low.
			high, highOK = low+uint64(v), true
		}
		if !lowOK || !highOK || name == "" {
			continue
		}
		if high < low {
			high += low // AttrHighpc is sometimes an offset from low
		}
		s.funcs = append(s.funcs, funcEntry{lowPC: low, highPC: high, name: name})
	}
	sort.Slice(s.funcs, func(i, j int) bool { return s.funcs[i].lowPC < s.funcs[j].lowPC })
}

func (s *ELFSymbolizer) loadDwarfLineTable(d *dwarf.Data) {
	r := d.Reader()
	for {
		cu, err := r.Next()
		if err != nil || cu == nil {
			break
		}
		if cu.Tag != dwarf.TagCompileUnit {
			continue
		}
		lr, err := d.LineReader(cu)
		if err != nil || lr == nil {
			continue
		}
		var le dwarf.LineEntry
		for {
			if err := lr.Next(&le); err != nil {
				break
			}
			s.lines = append(s.lines, lineEntry{
				pc:     le.Address,
				file:   le.File.Name,
				line:   le.Line,
				column: le.Column,
			})
		}
		r.SkipChildren()
	}
	sort.Slice(s.lines, func(i, j int) bool { return s.lines[i].pc < s.lines[j].pc })
}

func lookupFunc(table []funcEntry, pc uint64) (string, bool) {
	i := sort.Search(len(table), func(i int) bool { return table[i].lowPC > pc })
	if i == 0 {
		return "", false
	}
	f := table[i-1]
	if pc >= f.lowPC && pc < f.highPC {
		return f.name, true
	}
	return "", false
}

func lookupLine(table []lineEntry, pc uint64) (lineEntry, bool) {
	i := sort.Search(len(table), func(i int) bool { return table[i].pc > pc })
	if i == 0 {
		return lineEntry{}, false
	}
	return table[i-1], true
}

// Symbolize resolves ip using the DWARF subprogram table first, falling
// back to the ELF symbol table, then demangles the resolved name if it
// looks like a mangled Itanium symbol.
func (s *ELFSymbolizer) Symbolize(ip types.CodeLoc) (Symbol, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return Symbol{}, s.loadErr
	}

	pc := uint64(ip)
	name, ok := lookupFunc(s.funcs, pc)
	if !ok {
		name, ok = lookupFunc(s.elfSyms, pc)
	}
	if !ok {
		return Symbol{}, nil
	}

	sym := Symbol{Function: demangleName(name)}
	if le, ok := lookupLine(s.lines, pc); ok {
		sym.File = le.file
		sym.Line = le.line
		sym.Column = le.column
	}
	return sym, nil
}

// demangleName demangles an Itanium C++ mangled name, returning the input
// unchanged if it doesn't look mangled or demangling fails.
func demangleName(name string) string {
	if !strings.HasPrefix(name, "_Z") {
		return name
	}
	out, err := demangle.ToString(name)
	if err != nil {
		return name
	}
	return out
}
