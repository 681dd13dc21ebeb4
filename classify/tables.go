package classify

// NameSet restricts an UNSAFE/SAFE module entry to either every member
// (Wildcard) or a specific set of names.
type NameSet interface {
	has(name string) bool
}

// Wildcard matches any name within its module.
type Wildcard struct{}

func (Wildcard) has(string) bool { return true }

// Names matches only the listed names within its module.
type Names map[string]struct{}

func (n Names) has(name string) bool {
	_, ok := n[name]
	return ok
}

func names(list ...string) Names {
	n := make(Names, len(list))
	for _, s := range list {
		n[s] = struct{}{}
	}
	return n
}

// SAFE and UNSAFE are ported verbatim, module for module and name for name,
// from the reference scanner's _safe_globals/_unsafe_globals tables — the
// authoritative lists spec.md §6 reproduces. Comments on individual UNSAFE
// entries explain the attack each module enables, matching the source's own
// inline rationale.
var SAFE = map[string]NameSet{
	"collections": names("OrderedDict"),
	"torch": names(
		"LongStorage",
		"FloatStorage",
		"HalfStorage",
		"QUInt2x4Storage",
		"QUInt4x2Storage",
		"QInt32Storage",
		"QInt8Storage",
		"QUInt8Storage",
		"ComplexFloatStorage",
		"ComplexDoubleStorage",
		"DoubleStorage",
		"BFloat16Storage",
		"BoolStorage",
		"CharStorage",
		"ShortStorage",
		"IntStorage",
		"ByteStorage",
	),
	"numpy":                       names("dtype", "ndarray"),
	"numpy._core.multiarray":      names("_reconstruct"),
	"numpy.core.multiarray":       names("_reconstruct"),
	"torch._utils":                names("_rebuild_tensor_v2"),
}

var UNSAFE = map[string]NameSet{
	// Pickle protocols 0-2 resolve builtins under '__builtin__'; 3+ use
	// 'builtins'. Both must be listed since protocol is a property of the
	// stream being scanned, not of this process.
	"__builtin__": names("eval", "compile", "getattr", "apply", "exec", "open", "breakpoint"),
	"builtins":    names("eval", "compile", "getattr", "apply", "exec", "open", "breakpoint"),

	"aiohttp.client": Wildcard{},
	"asyncio":        Wildcard{},
	"bdb":            Wildcard{},
	"commands":       Wildcard{}, // Python 2 precursor to subprocess
	"functools":      names("partial"), // functools.partial(os.system, "echo pwned")
	"httplib":        Wildcard{}, // includes http.client.HTTPSConnection()

	"numpy.testing._private.utils": Wildcard{}, // runstring() here is a synonym for exec()
	"nt":                           Wildcard{}, // alias for 'os' on Windows
	"posix":                        Wildcard{}, // alias for 'os' on Linux
	"operator":                     names("attrgetter"),
	"os":                           Wildcard{},
	"requests.api":                 Wildcard{},
	"runpy":                        Wildcard{},
	"shutil":                       Wildcard{},
	"socket":                       Wildcard{},
	"ssl":                          Wildcard{}, // DNS exfiltration via get_server_certificate()
	"subprocess":                   Wildcard{},
	"sys":                          Wildcard{},
	"pdb":                          Wildcard{},
	"pickle":                       Wildcard{},
	"_pickle":                      Wildcard{},
	"pip":                          Wildcard{},
	"pydoc":                        names("pipepager"),
	"timeit":                       Wildcard{},
	"torch._inductor.codecache":    names("compile_file"),
	"torch.serialization":          names("load"), // pickle could load a different file
	"venv":                         Wildcard{},
	"webbrowser":                   Wildcard{}, // includes webbrowser.open()
}
